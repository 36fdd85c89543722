package util

// CanMutate 只有作者本人可以修改或删除
func CanMutate(requesterID, authorID uint) bool {
	return requesterID != 0 && requesterID == authorID
}
