package handlers

import (
	"context"
	"net/http"
	"regexp"
	"strings"

	"github.com/campusnet-app/backend/internal/models"
	"github.com/campusnet-app/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

var hashtagPattern = regexp.MustCompile(`#(\w+)`)

// PostHandler handles post CRUD routes.
type PostHandler struct {
	posts    repositories.PostRepository
	users    repositories.UserRepository
	marks    repositories.MarkRepository
	comments repositories.CommentRepository
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(postRepo repositories.PostRepository, userRepo repositories.UserRepository, markRepo repositories.MarkRepository, commentRepo repositories.CommentRepository) *PostHandler {
	return &PostHandler{posts: postRepo, users: userRepo, marks: markRepo, comments: commentRepo}
}

// postView is a post enriched with its author and the viewer's mark state.
type postView struct {
	models.Post
	Author  models.UserCompact `json:"author"`
	IsLiked bool               `json:"isLiked"`
	IsSaved bool               `json:"isSaved"`
}

// enrichPosts attaches author summaries and the viewer's like/save state to a
// page of posts.
func (h *PostHandler) enrichPosts(ctx context.Context, viewerID uint, posts []models.Post) ([]postView, error) {
	ids := make([]string, 0, len(posts))
	for i := range posts {
		ids = append(ids, posts[i].ID.Hex())
	}

	liked, err := h.marks.FilterMarked(viewerID, models.MarkKindLike, ids)
	if err != nil {
		return nil, err
	}
	saved, err := h.marks.FilterMarked(viewerID, models.MarkKindSave, ids)
	if err != nil {
		return nil, err
	}

	authors := make(map[uint]models.UserCompact)
	views := make([]postView, 0, len(posts))
	for i := range posts {
		author, ok := authors[posts[i].AuthorID]
		if !ok {
			u, err := h.users.GetUserByID(posts[i].AuthorID)
			if err != nil {
				// author may have deleted their account; keep the post
				author = models.UserCompact{ID: posts[i].AuthorID, Name: "Unknown"}
			} else {
				author = u.ToCompact()
			}
			authors[posts[i].AuthorID] = author
		}
		id := posts[i].ID.Hex()
		views = append(views, postView{
			Post:    posts[i],
			Author:  author,
			IsLiked: liked[id],
			IsSaved: saved[id],
		})
	}
	return views, nil
}

// CreatePost creates a post authored by the authenticated user. Hashtags are
// extracted from the content.
func (h *PostHandler) CreatePost(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	post := &models.Post{
		AuthorID:  userID,
		Content:   req.Content,
		MediaURLs: req.MediaURLs,
		Hashtags:  extractHashtags(req.Content),
		IsPublic:  isPublic,
		FacultyID: req.FacultyID,
		GroupID:   req.GroupID,
	}

	ctx := c.Request().Context()
	if err := h.posts.CreatePost(ctx, post); err != nil {
		return httpError(err, "Failed to create post")
	}
	if err := h.users.AdjustPostsCount(userID, 1); err != nil {
		log.Error().Err(err).Uint("user_id", userID).Msg("failed to bump posts count")
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": post})
}

// ListPosts lists public posts, optionally filtered by faculty, group or a
// text search, newest first.
func (h *PostHandler) ListPosts(c echo.Context) error {
	viewerID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	page, limit := parsePagination(c, 20, 50)

	filter := repositories.PostFilter{
		PublicOnly: true,
		TextSearch: c.QueryParam("q"),
	}
	facultyID, err := parseOptionalUintQuery(c, "facultyId")
	if err != nil {
		return err
	}
	filter.FacultyID = facultyID
	groupID, err := parseOptionalUintQuery(c, "groupId")
	if err != nil {
		return err
	}
	filter.GroupID = groupID

	ctx := c.Request().Context()
	posts, total, err := h.posts.ListPosts(ctx, filter, int64((page-1)*limit), int64(limit))
	if err != nil {
		return httpError(err, "Failed to fetch posts")
	}

	views, err := h.enrichPosts(ctx, viewerID, posts)
	if err != nil {
		return httpError(err, "Failed to enrich posts")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    views,
		"meta":    paginationMeta(page, limit, total),
	})
}

// GetPost returns a single post by ID.
func (h *PostHandler) GetPost(c echo.Context) error {
	viewerID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	post, err := h.posts.GetPostByID(ctx, c.Param("id"))
	if err != nil {
		return httpError(err, "Failed to fetch post")
	}

	views, err := h.enrichPosts(ctx, viewerID, []models.Post{*post})
	if err != nil {
		return httpError(err, "Failed to enrich post")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": views[0]})
}

// ListUserPosts lists a user's posts, newest first.
func (h *PostHandler) ListUserPosts(c echo.Context) error {
	viewerID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	authorID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}
	page, limit := parsePagination(c, 20, 50)

	ctx := c.Request().Context()
	posts, total, err := h.posts.ListByAuthor(ctx, authorID, int64((page-1)*limit), int64(limit))
	if err != nil {
		return httpError(err, "Failed to fetch posts")
	}

	views, err := h.enrichPosts(ctx, viewerID, posts)
	if err != nil {
		return httpError(err, "Failed to enrich posts")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    views,
		"meta":    paginationMeta(page, limit, total),
	})
}

// DeletePost deletes a post. Only the author or an admin may delete it. The
// post's comments go with it.
func (h *PostHandler) DeletePost(c echo.Context) error {
	claims, err := getUserClaims(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	postID := c.Param("id")
	post, err := h.posts.GetPostByID(ctx, postID)
	if err != nil {
		return httpError(err, "Failed to fetch post")
	}
	if post.AuthorID != claims.UserID && claims.Role != models.RoleAdmin {
		return echo.NewHTTPError(http.StatusForbidden, "Not allowed to delete this post")
	}

	if err := h.posts.DeletePost(ctx, postID); err != nil {
		return httpError(err, "Failed to delete post")
	}
	if err := h.comments.DeleteByPostID(postID); err != nil {
		log.Error().Err(err).Str("post_id", postID).Msg("failed to delete post comments")
	}
	if err := h.users.AdjustPostsCount(post.AuthorID, -1); err != nil {
		log.Error().Err(err).Uint("user_id", post.AuthorID).Msg("failed to decrement posts count")
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"deleted": true}})
}

func extractHashtags(content string) []string {
	matches := hashtagPattern.FindAllStringSubmatch(content, -1)
	seen := make(map[string]bool)
	tags := make([]string, 0, len(matches))
	for _, m := range matches {
		tag := strings.ToLower(m[1])
		if !seen[tag] {
			seen[tag] = true
			tags = append(tags, tag)
		}
	}
	return tags
}

// RegisterPostRoutes registers post routes.
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.GET("/posts", h.ListPosts)
	g.GET("/posts/:id", h.GetPost)
	g.DELETE("/posts/:id", h.DeletePost)
	g.GET("/users/:id/posts", h.ListUserPosts)
}
