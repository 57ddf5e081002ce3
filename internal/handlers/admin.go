package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/utils"

	"github.com/gin-gonic/gin"
)

const msgDuplicateTitle = "A post with that title already exists, please choose another one."

// AdminHandler serves post authoring. Every route is mounted behind
// AuthRequired and AdminRequired.
type AdminHandler struct {
	content  *repository.ContentStore
	users    *repository.CredentialStore
	rendered *utils.CommentCache
}

func NewAdminHandler(content *repository.ContentStore, users *repository.CredentialStore, rendered *utils.CommentCache) *AdminHandler {
	return &AdminHandler{content: content, users: users, rendered: rendered}
}

func (h *AdminHandler) ShowCreate(c *gin.Context) {
	h.renderForm(c, http.StatusOK, PostForm{}, nil, 0)
}

func (h *AdminHandler) Create(c *gin.Context) {
	var form PostForm
	if errs := h.bind(c, &form); errs != nil {
		h.renderForm(c, http.StatusBadRequest, form, errs, 0)
		return
	}

	admin := middleware.CurrentUser(c)
	post, err := h.content.CreatePost(c.Request.Context(), input(form, admin.ID))
	if err != nil {
		if errors.Is(err, models.ErrDuplicateTitle) {
			flash(c, msgDuplicateTitle)
			h.renderForm(c, http.StatusConflict, form, nil, 0)
			return
		}
		ServerError(c, err)
		return
	}

	middleware.Logger.InfoContext(c.Request.Context(), "post created", slog.Uint64("post_id", uint64(post.ID)))
	redirect(c, "/")
}

func (h *AdminHandler) ShowEdit(c *gin.Context) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		NotFound(c)
		return
	}
	post, err := h.content.GetPost(c.Request.Context(), id)
	if err != nil {
		ServerError(c, err)
		return
	}
	if post == nil {
		NotFound(c)
		return
	}

	form := PostForm{
		Title:    post.Title,
		Subtitle: post.Subtitle,
		ImgURL:   post.ImgURL,
		Body:     post.Body,
		AuthorID: post.AuthorID,
	}
	h.renderForm(c, http.StatusOK, form, nil, post.ID)
}

func (h *AdminHandler) Update(c *gin.Context) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		NotFound(c)
		return
	}

	var form PostForm
	if errs := h.bind(c, &form); errs != nil {
		h.renderForm(c, http.StatusBadRequest, form, errs, id)
		return
	}

	_, err := h.content.UpdatePost(c.Request.Context(), id, input(form, form.AuthorID))
	switch {
	case errors.Is(err, models.ErrNotFound):
		NotFound(c)
		return
	case errors.Is(err, models.ErrAuthorNotFound):
		h.renderForm(c, http.StatusBadRequest, form, map[string]string{"AuthorID": "Unknown author."}, id)
		return
	case errors.Is(err, models.ErrDuplicateTitle):
		flash(c, msgDuplicateTitle)
		h.renderForm(c, http.StatusConflict, form, nil, id)
		return
	case err != nil:
		ServerError(c, err)
		return
	}
	redirect(c, "/post/"+strconv.FormatUint(uint64(id), 10))
}

// Delete removes a post and its comments.
func (h *AdminHandler) Delete(c *gin.Context) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		NotFound(c)
		return
	}

	ctx := c.Request.Context()
	ids, err := h.content.DeletePost(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			NotFound(c)
			return
		}
		ServerError(c, err)
		return
	}

	h.rendered.Forget(ids...)

	middleware.Logger.InfoContext(ctx, "post deleted",
		slog.Uint64("post_id", uint64(id)),
		slog.Int("comments", len(ids)),
	)
	redirect(c, "/")
}

func (h *AdminHandler) bind(c *gin.Context, form *PostForm) map[string]string {
	errs := bindForm(c, form)
	for field, value := range map[string]string{
		"Title":    form.Title,
		"Subtitle": form.Subtitle,
		"Body":     form.Body,
	} {
		errs = blank(errs, field, value)
	}
	return errs
}

func (h *AdminHandler) renderForm(c *gin.Context, code int, form PostForm, errs map[string]string, postID uint) {
	data := gin.H{
		"Form":    form,
		"Errors":  errs,
		"Heading": "New Post",
		"Action":  "/new-post",
	}
	if postID != 0 {
		authors, err := h.users.ListUsers(c.Request.Context())
		if err != nil {
			ServerError(c, err)
			return
		}
		data["Heading"] = "Edit Post"
		data["Action"] = "/edit-post/" + strconv.FormatUint(uint64(postID), 10)
		data["Authors"] = authors
	}
	Render(c, code, "make-post.html", data)
}

func input(form PostForm, authorID uint) repository.PostInput {
	return repository.PostInput{
		Title:    form.Title,
		Subtitle: form.Subtitle,
		Body:     form.Body,
		ImgURL:   form.ImgURL,
		AuthorID: authorID,
	}
}
