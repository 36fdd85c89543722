package controller

import (
	"errors"
	"net/http"

	"puzzle_quiz_backend/internal/service"
	"puzzle_quiz_backend/internal/util"

	"github.com/gin-gonic/gin"
)

const (
	msgCommentDeleted    = "The Comment was deleted."
	msgCommentNotDeleter = "You can't delete a comment you don't own."
)

type CommentController struct {
	CommentService *service.CommentService
	Puzzles        *PuzzleController
	Responses      *ResponseController
}

func NewCommentController(commentService *service.CommentService, puzzles *PuzzleController, responses *ResponseController) *CommentController {
	return &CommentController{
		CommentService: commentService,
		Puzzles:        puzzles,
		Responses:      responses,
	}
}

func (c *CommentController) create(ctx *gin.Context, target service.CommentTarget, rerender func(service.CommentRequest, util.FieldErrors)) {
	var req service.CommentRequest
	if err := ctx.ShouldBind(&req); err != nil {
		rerender(req, util.ValidationMessages(err))
		return
	}

	comment, err := c.CommentService.Create(util.CurrentUserID(ctx), target, req)
	if handleError(ctx, err) {
		return
	}
	util.Redirect(ctx, comment.ParentPath())
}

// CreateOnPuzzle 发表评论，校验失败时重新渲染详情页
func (c *CommentController) CreateOnPuzzle(ctx *gin.Context) {
	id := ctx.Param("id")
	c.create(ctx, service.CommentTarget{PuzzleID: id}, func(req service.CommentRequest, errs util.FieldErrors) {
		c.Puzzles.renderView(ctx, http.StatusUnprocessableEntity, id, req, errs)
	})
}

func (c *CommentController) CreateOnResponse(ctx *gin.Context) {
	id := ctx.Param("id")
	c.create(ctx, service.CommentTarget{ResponseID: id}, func(req service.CommentRequest, errs util.FieldErrors) {
		c.Responses.renderView(ctx, http.StatusUnprocessableEntity, id, req, errs)
	})
}

func (c *CommentController) Delete(ctx *gin.Context) {
	comment, err := c.CommentService.Delete(util.CurrentUserID(ctx), ctx.Param("id"))
	if errors.Is(err, util.ErrPermissionDenied) {
		util.RedirectWithFlash(ctx, comment.ParentPath(), msgCommentNotDeleter)
		return
	}
	if handleError(ctx, err) {
		return
	}
	util.RedirectWithFlash(ctx, comment.ParentPath(), msgCommentDeleted)
}
