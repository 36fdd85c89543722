package controller

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	"puzzle_quiz_backend/internal/model"
	"puzzle_quiz_backend/internal/service"
	"puzzle_quiz_backend/internal/util"

	"github.com/gin-gonic/gin"
)

const (
	msgResponseDeleted    = "The Response was deleted."
	msgResponseNotDeleter = "You can't delete a response you don't own."
)

type ResponseController struct {
	ResponseService *service.ResponseService
	ExportService   *service.ExportService
}

func NewResponseController(responseService *service.ResponseService, exportService *service.ExportService) *ResponseController {
	return &ResponseController{
		ResponseService: responseService,
		ExportService:   exportService,
	}
}

func formTitle(variant string) string {
	if variant == "random" {
		return "Random quiz"
	}
	return "Quiz " + variant
}

func (c *ResponseController) renderForm(ctx *gin.Context, code int, variant string, form *service.SubmissionForm) {
	util.Render(ctx, code, "responseform.html", gin.H{
		"Title":  formTitle(variant),
		"Action": "/response/" + variant,
		"Form":   form,
	})
}

// ShowForm 展示空白答题表单
func (c *ResponseController) ShowForm(variant string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		result, err := c.ResponseService.Present(variant)
		if handleError(ctx, err) {
			return
		}
		c.renderForm(ctx, http.StatusOK, variant, result.Form)
	}
}

// Submit 校验、评分并保存，成功后跳转到详情页
func (c *ResponseController) Submit(variant string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		v, err := c.ResponseService.Variant(variant)
		if handleError(ctx, err) {
			return
		}

		sub := service.ReadSubmission(v.QuestionCount(), ctx.PostForm)
		result, err := c.ResponseService.Submit(ctx.Request.Context(), util.CurrentUserID(ctx), variant, sub)
		if handleError(ctx, err) {
			return
		}

		if result.State != service.StatePersisted {
			c.renderForm(ctx, http.StatusUnprocessableEntity, variant, result.Form)
			return
		}
		util.Redirect(ctx, c.ResponseService.ViewPath(result.Response))
	}
}

func (c *ResponseController) View(ctx *gin.Context) {
	c.renderView(ctx, http.StatusOK, ctx.Param("id"), service.CommentRequest{}, nil)
}

func (c *ResponseController) renderView(ctx *gin.Context, code int, id string, form service.CommentRequest, errs util.FieldErrors) {
	resp, comments, err := c.ResponseService.GetWithComments(id)
	if handleError(ctx, err) {
		return
	}
	data := gin.H{
		"Title":    "Response",
		"Response": resp,
	}
	util.Render(ctx, code, "response.html", commentSection(data, comments, "/response/"+resp.ID+"/comment", form, errs))
}

// List 全部答题记录；?mine=1 只看自己的
func (c *ResponseController) List(ctx *gin.Context) {
	mine := ctx.Query("mine") == "1"

	var responses []model.Response
	var err error
	if mine {
		responses, err = c.ResponseService.ListByAuthor(util.CurrentUserID(ctx))
	} else {
		responses, err = c.ResponseService.List()
	}
	if handleError(ctx, err) {
		return
	}
	util.Render(ctx, http.StatusOK, "responses.html", gin.H{
		"Title":     "Responses",
		"Responses": responses,
		"Mine":      mine,
	})
}

func (c *ResponseController) Delete(ctx *gin.Context) {
	err := c.ResponseService.Delete(util.CurrentUserID(ctx), ctx.Param("id"))
	if errors.Is(err, util.ErrPermissionDenied) {
		util.RedirectWithFlash(ctx, "/responses", msgResponseNotDeleter)
		return
	}
	if handleError(ctx, err) {
		return
	}
	util.RedirectWithFlash(ctx, "/responses", msgResponseDeleted)
}

// Export 导出全部答题记录为 xlsx
func (c *ResponseController) Export(ctx *gin.Context) {
	responses, err := c.ResponseService.List()
	if handleError(ctx, err) {
		return
	}

	var buf bytes.Buffer
	if err := c.ExportService.WriteResponses(&buf, responses); err != nil {
		util.LogInternalError(ctx, fmt.Errorf("export responses: %w", err))
		return
	}

	filename := fmt.Sprintf("responses-%s.xlsx", time.Now().Format("20060102"))
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	ctx.Data(http.StatusOK, util.MimeXLSX, buf.Bytes())
}
