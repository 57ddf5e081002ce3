package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type RegisterForm struct {
	Name     string `form:"name" binding:"required"`
	Email    string `form:"email" binding:"required,min=6,email"`
	Password string `form:"password" binding:"required"`
}

type LoginForm struct {
	Email    string `form:"email" binding:"required,min=6,email"`
	Password string `form:"password" binding:"required"`
}

type CommentForm struct {
	Comment string `form:"comment" binding:"required"`
}

type PostForm struct {
	Title    string `form:"title" binding:"required,max=250"`
	Subtitle string `form:"subtitle" binding:"required,max=250"`
	ImgURL   string `form:"img_url" binding:"required,url,max=250"`
	Body     string `form:"body" binding:"required"`
	AuthorID uint   `form:"author_id"`
}

var fieldLabels = map[string]string{
	"Name":     "Name",
	"Email":    "Email",
	"Password": "Password",
	"Comment":  "Comment",
	"Title":    "Blog Post Title",
	"Subtitle": "Subtitle",
	"ImgURL":   "Blog Image URL",
	"Body":     "Blog Content",
	"AuthorID": "Author",
}

// bindForm binds the request form into dst. On failure it returns one
// message per field, keyed by struct field name.
func bindForm(c *gin.Context, dst any) map[string]string {
	if err := c.ShouldBind(dst); err != nil {
		return fieldErrors(err)
	}
	return nil
}

func fieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"_form": "Invalid form submission."}
	}

	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = fieldMessage(fe)
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	label := fieldLabels[fe.Field()]
	if label == "" {
		label = fe.Field()
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required.", label)
	case "email":
		return "Invalid email address."
	case "url":
		return "Invalid URL."
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long.", label, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long.", label, fe.Param())
	}
	return fmt.Sprintf("%s is invalid.", label)
}

// blank reports whether a required text field only holds whitespace, which
// the required tag lets through.
func blank(errs map[string]string, field, value string) map[string]string {
	if strings.TrimSpace(value) != "" {
		return errs
	}
	if errs == nil {
		errs = map[string]string{}
	}
	if _, ok := errs[field]; !ok {
		errs[field] = fmt.Sprintf("%s is required.", fieldLabels[field])
	}
	return errs
}
