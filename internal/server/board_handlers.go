package server

import (
	"fmt"

	"innovalley/internal/middleware"
	"innovalley/internal/service"

	"github.com/gofiber/fiber/v2"
)

type postRequest struct {
	Title   string `json:"title" form:"title"`
	Content string `json:"content" form:"content"`
}

type commentRequest struct {
	Content string `json:"content" form:"content"`
}

// WriteForm handles GET /write (login required)
func (s *Server) WriteForm(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"user":   middleware.CurrentIdentity(c),
		"fields": []string{"title", "content"},
	})
}

// CreatePost handles POST /write
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return bodyError(c)
	}

	_, err := s.postService.CreatePost(c.UserContext(), middleware.CurrentIdentity(c), service.CreatePostInput{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Redirect("/sns", fiber.StatusSeeOther)
}

// ListPosts handles GET /sns
func (s *Server) ListPosts(c *fiber.Ctx) error {
	posts, err := s.postService.ListPosts(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"user":  middleware.CurrentIdentity(c),
		"posts": posts,
	})
}

// GetPost handles GET /post/:post_id
func (s *Server) GetPost(c *fiber.Ctx) error {
	ctx := c.UserContext()

	postID, err := s.parseID(c, "post_id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(ctx, postID)
	if err != nil {
		return respondError(c, err)
	}
	comments, err := s.commentService.ListComments(ctx, post)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"user":     middleware.CurrentIdentity(c),
		"post":     post,
		"comments": comments,
	})
}

// CreateComment handles POST /comment/:post_id
func (s *Server) CreateComment(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "post_id")
	if err != nil {
		return nil
	}

	var req commentRequest
	if err := c.BodyParser(&req); err != nil {
		return bodyError(c)
	}

	_, err = s.commentService.CreateComment(c.UserContext(), middleware.CurrentIdentity(c), service.CreateCommentInput{
		PostID:  postID,
		Content: req.Content,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Redirect(fmt.Sprintf("/post/%d", postID), fiber.StatusSeeOther)
}

// DeletePost handles GET and POST /delete/post/:post_id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "post_id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.UserContext(), middleware.CurrentIdentity(c), postID); err != nil {
		return respondError(c, err)
	}
	return c.Redirect("/sns", fiber.StatusSeeOther)
}

// DeleteComment handles GET and POST /delete/comment/:post_id/:comment_id
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "post_id")
	if err != nil {
		return nil
	}
	commentID, err := s.parseID(c, "comment_id")
	if err != nil {
		return nil
	}

	err = s.commentService.DeleteComment(c.UserContext(), middleware.CurrentIdentity(c), service.DeleteCommentInput{
		PostID:    postID,
		CommentID: commentID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Redirect(fmt.Sprintf("/post/%d", postID), fiber.StatusSeeOther)
}
