package controller

import (
	"errors"
	"net/http"

	"puzzle_quiz_backend/internal/model"
	"puzzle_quiz_backend/internal/service"
	"puzzle_quiz_backend/internal/util"

	"github.com/gin-gonic/gin"
)

const (
	msgPuzzleDeleted    = "The Puzzle was deleted."
	msgPuzzleNotEditor  = "You can't edit a puzzle you don't own."
	msgPuzzleNotDeleter = "You can't delete a puzzle you don't own."
)

type PuzzleController struct {
	PuzzleService *service.PuzzleService
}

func NewPuzzleController(puzzleService *service.PuzzleService) *PuzzleController {
	return &PuzzleController{PuzzleService: puzzleService}
}

// handleError 统一处理 not found / 其他错误，返回 true 表示已经输出响应
func handleError(ctx *gin.Context, err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, util.ErrNotFound) {
		util.NotFound(ctx)
		return true
	}
	util.LogInternalError(ctx, err)
	return true
}

func commentSection(data gin.H, comments []model.Comment, action string, form service.CommentRequest, errs util.FieldErrors) gin.H {
	data["Comments"] = comments
	data["CommentAction"] = action
	data["CommentForm"] = form
	data["CommentErrors"] = errs
	return data
}

func (c *PuzzleController) renderForm(ctx *gin.Context, code int, title, action string, req service.PuzzleRequest, errs util.FieldErrors) {
	util.Render(ctx, code, "puzzleform.html", gin.H{
		"Title":  title,
		"Action": action,
		"Form":   req,
		"Errors": errs,
	})
}

// List 按修改时间倒序
func (c *PuzzleController) List(ctx *gin.Context) {
	puzzles, err := c.PuzzleService.List()
	if handleError(ctx, err) {
		return
	}
	util.Render(ctx, http.StatusOK, "puzzles.html", gin.H{
		"Title":   "Puzzles",
		"Puzzles": puzzles,
	})
}

func (c *PuzzleController) New(ctx *gin.Context) {
	c.renderForm(ctx, http.StatusOK, "New puzzle", "/puzzle/new", service.PuzzleRequest{}, nil)
}

func (c *PuzzleController) Create(ctx *gin.Context) {
	var req service.PuzzleRequest
	if err := ctx.ShouldBind(&req); err != nil {
		c.renderForm(ctx, http.StatusUnprocessableEntity, "New puzzle", "/puzzle/new", req, util.ValidationMessages(err))
		return
	}

	puzzle, err := c.PuzzleService.Create(util.CurrentUserID(ctx), req)
	if handleError(ctx, err) {
		return
	}
	util.Redirect(ctx, "/puzzle/"+puzzle.ID)
}

// View 详情和评论
func (c *PuzzleController) View(ctx *gin.Context) {
	c.renderView(ctx, http.StatusOK, ctx.Param("id"), service.CommentRequest{}, nil)
}

func (c *PuzzleController) renderView(ctx *gin.Context, code int, id string, form service.CommentRequest, errs util.FieldErrors) {
	puzzle, comments, err := c.PuzzleService.GetWithComments(id)
	if handleError(ctx, err) {
		return
	}
	data := gin.H{
		"Title":  puzzle.Name,
		"Puzzle": puzzle,
	}
	util.Render(ctx, code, "puzzle.html", commentSection(data, comments, "/puzzle/"+puzzle.ID+"/comment", form, errs))
}

func (c *PuzzleController) Edit(ctx *gin.Context) {
	id := ctx.Param("id")
	puzzle, err := c.PuzzleService.GetForEdit(util.CurrentUserID(ctx), id)
	if errors.Is(err, util.ErrPermissionDenied) {
		util.RedirectWithFlash(ctx, "/puzzle/"+id, msgPuzzleNotEditor)
		return
	}
	if handleError(ctx, err) {
		return
	}

	req := service.PuzzleRequest{Name: puzzle.Name, Question: puzzle.Question, Tag: puzzle.Tag}
	c.renderForm(ctx, http.StatusOK, "Edit puzzle", "/puzzle/edit/"+puzzle.ID, req, nil)
}

func (c *PuzzleController) Update(ctx *gin.Context) {
	id := ctx.Param("id")
	userID := util.CurrentUserID(ctx)

	// 先做权限判断，非作者提交的表单不做校验
	if _, err := c.PuzzleService.GetForEdit(userID, id); err != nil {
		if errors.Is(err, util.ErrPermissionDenied) {
			util.RedirectWithFlash(ctx, "/puzzle/"+id, msgPuzzleNotEditor)
			return
		}
		handleError(ctx, err)
		return
	}

	var req service.PuzzleRequest
	if err := ctx.ShouldBind(&req); err != nil {
		c.renderForm(ctx, http.StatusUnprocessableEntity, "Edit puzzle", "/puzzle/edit/"+id, req, util.ValidationMessages(err))
		return
	}

	puzzle, err := c.PuzzleService.Update(userID, id, req)
	if errors.Is(err, util.ErrPermissionDenied) {
		util.RedirectWithFlash(ctx, "/puzzle/"+id, msgPuzzleNotEditor)
		return
	}
	if handleError(ctx, err) {
		return
	}
	util.Redirect(ctx, "/puzzle/"+puzzle.ID)
}

func (c *PuzzleController) Delete(ctx *gin.Context) {
	err := c.PuzzleService.Delete(util.CurrentUserID(ctx), ctx.Param("id"))
	if errors.Is(err, util.ErrPermissionDenied) {
		util.RedirectWithFlash(ctx, "/puzzles", msgPuzzleNotDeleter)
		return
	}
	if handleError(ctx, err) {
		return
	}
	util.RedirectWithFlash(ctx, "/puzzles", msgPuzzleDeleted)
}
