package quiz

import (
	"errors"
	"fmt"
	"slices"
)

var (
	ErrDuplicateQuestion = errors.New("quiz: duplicate question id")
	ErrInvalidEntry      = errors.New("quiz: invalid bank entry")
	ErrUnknownQuestion   = errors.New("quiz: unknown question id")
)

// Entry 题库中的一道题及其可接受答案
type Entry struct {
	ID       string   `yaml:"id"`
	Question string   `yaml:"question"`
	Accepted []string `yaml:"accepted"`
}

// Accepts 精确匹配，区分大小写，不做 trim
func (e Entry) Accepts(answer string) bool {
	return slices.Contains(e.Accepted, answer)
}

func (e Entry) clone() Entry {
	e.Accepted = slices.Clone(e.Accepted)
	return e
}

// Bank is the immutable question/accepted-answer table. It is safe to share
// between goroutines once built.
type Bank struct {
	entries []Entry
	byID    map[string]int
}

func NewBank(entries []Entry) (*Bank, error) {
	b := &Bank{
		entries: make([]Entry, 0, len(entries)),
		byID:    make(map[string]int, len(entries)),
	}
	for i, e := range entries {
		if e.ID == "" || e.Question == "" || len(e.Accepted) == 0 {
			return nil, fmt.Errorf("%w: position %d", ErrInvalidEntry, i)
		}
		if _, ok := b.byID[e.ID]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateQuestion, e.ID)
		}
		b.byID[e.ID] = len(b.entries)
		b.entries = append(b.entries, e.clone())
	}
	return b, nil
}

func (b *Bank) Len() int {
	return len(b.entries)
}

func (b *Bank) Lookup(index int) (Entry, bool) {
	if index < 0 || index >= len(b.entries) {
		return Entry{}, false
	}
	return b.entries[index].clone(), true
}

func (b *Bank) ByID(id string) (Entry, bool) {
	i, ok := b.byID[id]
	if !ok {
		return Entry{}, false
	}
	return b.entries[i].clone(), true
}

// Resolve 按 id 顺序取题，任一 id 不存在即报错
func (b *Bank) Resolve(ids []string) ([]Entry, error) {
	out := make([]Entry, 0, len(ids))
	for _, id := range ids {
		e, ok := b.ByID(id)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownQuestion, id)
		}
		out = append(out, e)
	}
	return out, nil
}

// DefaultEntries 内置题库
func DefaultEntries() []Entry {
	return []Entry{
		{ID: "q1", Question: "1+1?", Accepted: []string{"2", "two"}},
		{ID: "q2", Question: "1+2?", Accepted: []string{"3", "three"}},
		{ID: "q3", Question: "1+3?", Accepted: []string{"4", "four"}},
		{ID: "q4", Question: "What has a lot of water and starts with an O?", Accepted: []string{"Ocean", "ocean", "OCEAN"}},
		{ID: "q5", Question: "Rearrange these letters to create a word: L F O R E W", Accepted: []string{"FLOWER", "flower", "Flower"}},
		{ID: "q6", Question: "What do you use to communicate and is a 5 letter word?", Accepted: []string{"Phone", "phone", "PHONE"}},
		{ID: "q7", Question: "Which season is cold?", Accepted: []string{"Winter", "winter", "WINTER"}},
		{ID: "q8", Question: "Which vehicle can fly?", Accepted: []string{"Airplane", "airplane", "AIRPLANE", "Plane", "plane", "PLANE"}},
		{ID: "q9", Question: "Which planet do we live in?", Accepted: []string{"Earth", "earth", "EARTH"}},
	}
}
