package handlers

import (
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/utils"

	"github.com/gin-gonic/gin"
)

const msgLoginToComment = "Please login first before commenting"

// CommentView is a comment ready for the template.
type CommentView struct {
	models.Comment
	HTML template.HTML
}

type PostHandler struct {
	content  *repository.ContentStore
	rendered *utils.CommentCache
}

func NewPostHandler(content *repository.ContentStore, rendered *utils.CommentCache) *PostHandler {
	return &PostHandler{content: content, rendered: rendered}
}

// List shows every post on the home page.
func (h *PostHandler) List(c *gin.Context) {
	posts, err := h.content.ListPosts(c.Request.Context())
	if err != nil {
		ServerError(c, err)
		return
	}
	Render(c, http.StatusOK, "index.html", gin.H{"Posts": posts})
}

func (h *PostHandler) Detail(c *gin.Context) {
	post, ok := h.loadPost(c)
	if !ok {
		return
	}
	h.renderPost(c, http.StatusOK, post, CommentForm{}, nil)
}

// CreateComment adds a comment by the current user. Anonymous visitors are
// sent to the login page.
func (h *PostHandler) CreateComment(c *gin.Context) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		NotFound(c)
		return
	}

	user := middleware.CurrentUser(c)
	if user == nil {
		flash(c, msgLoginToComment)
		redirect(c, "/login")
		return
	}

	var form CommentForm
	errs := bindForm(c, &form)
	errs = blank(errs, "Comment", form.Comment)
	if errs != nil {
		post, ok := h.loadPost(c)
		if !ok {
			return
		}
		h.renderPost(c, http.StatusBadRequest, post, form, errs)
		return
	}

	_, err := h.content.AddComment(c.Request.Context(), id, user.ID, strings.TrimSpace(form.Comment))
	if err != nil {
		if errors.Is(err, models.ErrPostNotFound) {
			NotFound(c)
			return
		}
		if errors.Is(err, models.ErrAuthorNotFound) {
			// account vanished under a live session
			RenderError(c, http.StatusForbidden, "You do not have permission to view that page")
			return
		}
		ServerError(c, err)
		return
	}
	redirect(c, "/post/"+strconv.FormatUint(uint64(id), 10))
}

func (h *PostHandler) loadPost(c *gin.Context) (*models.Post, bool) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		NotFound(c)
		return nil, false
	}
	post, err := h.content.GetPost(c.Request.Context(), id)
	if err != nil {
		ServerError(c, err)
		return nil, false
	}
	if post == nil {
		NotFound(c)
		return nil, false
	}
	return post, true
}

func (h *PostHandler) renderPost(c *gin.Context, code int, post *models.Post, form CommentForm, errs map[string]string) {
	comments, err := h.content.ListComments(c.Request.Context(), post.ID)
	if err != nil {
		ServerError(c, err)
		return
	}

	views := make([]CommentView, 0, len(comments))
	for _, cm := range comments {
		views = append(views, CommentView{
			Comment: cm,
			HTML:    h.rendered.Render(cm.ID, cm.Text),
		})
	}

	Render(c, code, "post.html", gin.H{
		"Post":     post,
		"Body":     utils.SanitizeHTML(post.Body),
		"Comments": views,
		"Form":     form,
		"Errors":   errs,
	})
}
