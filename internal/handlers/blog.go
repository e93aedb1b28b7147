package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hajobja/hajobja-backend/internal/database"
	"github.com/hajobja/hajobja-backend/internal/middleware"
	"github.com/hajobja/hajobja-backend/internal/models"
	"github.com/hajobja/hajobja-backend/internal/services"
	"github.com/hajobja/hajobja-backend/pkg/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// aiClient is wired at startup by InitAIService; nil when unconfigured, in
// which case AI endpoints answer 503.
var aiClient *services.AIClient

// InitAIService sets the shared AI client used by blog and admin handlers.
func InitAIService(endpoint, apiKey string) {
	if endpoint == "" {
		return
	}
	aiClient = services.NewAIClient(endpoint, apiKey)
}

type BlogPostRequest struct {
	Title         string   `json:"title" validate:"required,max=150"`
	Excerpt       string   `json:"excerpt" validate:"omitempty,max=500"`
	Content       string   `json:"content" validate:"required"`
	CoverImageURL string   `json:"cover_image_url" validate:"omitempty,url,max=500"`
	Tags          []string `json:"tags" validate:"omitempty,max=10,dive,max=40"`
}

type BlogStatusRequest struct {
	Status models.BlogStatus `json:"status" validate:"required,oneof=draft published archived"`
}

type BlogCommentRequest struct {
	Text string `json:"text" validate:"required,max=3000"`
}

// CreateBlogPost creates a draft. Writer or Admin only (enforced by routing).
func CreateBlogPost(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	var req BlogPostRequest
	if !decodeBody(w, r, &req) {
		return
	}

	slug, err := utils.MakeSlug(req.Title)
	if err != nil {
		writeServiceError(w, "blog slug", err)
		return
	}

	now := time.Now()
	post := models.BlogPost{
		ID:                primitive.NewObjectID(),
		CreatedAt:         now,
		UpdatedAt:         now,
		Slug:              slug,
		AuthorID:          user.ID,
		AuthorDisplayName: user.DisplayName,
		Title:             req.Title,
		Excerpt:           req.Excerpt,
		Content:           req.Content,
		CoverImageURL:     req.CoverImageURL,
		Tags:              req.Tags,
		Status:            models.BlogStatusDraft,
	}

	if _, err := database.DB.Collection(database.CollBlogPosts).InsertOne(r.Context(), post); err != nil {
		writeServiceError(w, "blog insert", err)
		return
	}

	writeData(w, http.StatusCreated, post)
}

func loadBlogPost(w http.ResponseWriter, r *http.Request) (*models.BlogPost, bool) {
	postID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid post id")
		return nil, false
	}

	var post models.BlogPost
	err = database.DB.Collection(database.CollBlogPosts).FindOne(r.Context(), bson.M{"_id": postID}).Decode(&post)
	if err == mongo.ErrNoDocuments {
		writeMessage(w, http.StatusNotFound, "ไม่พบบทความนี้")
		return nil, false
	}
	if err != nil {
		writeServiceError(w, "blog lookup", err)
		return nil, false
	}
	return &post, true
}

// canEditBlogPost: the author edits their own posts; admins edit any.
func canEditBlogPost(user *models.User, post *models.BlogPost) bool {
	return post.AuthorID == user.ID || user.Role == models.RoleAdmin
}

// optionalUser resolves the caller on public routes that behave differently
// for signed-in users. Returns nil when no valid session token is attached,
// never an error.
func optionalUser(r *http.Request) *models.User {
	if user := middleware.UserFromContext(r.Context()); user != nil {
		return user
	}

	token := middleware.ExtractBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		return nil
	}
	userID, ok, err := services.ValidateSession(r.Context(), token)
	if err != nil || !ok {
		return nil
	}
	user, err := services.GetUserByID(r.Context(), userID)
	if err != nil {
		return nil
	}
	return user
}

// GetBlogPostBySlug returns a published post with its comments. Drafts and
// archived posts are only visible to their author and admins.
func GetBlogPostBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	var post models.BlogPost
	err := database.DB.Collection(database.CollBlogPosts).FindOne(r.Context(), bson.M{"slug": slug}).Decode(&post)
	if err == mongo.ErrNoDocuments {
		writeMessage(w, http.StatusNotFound, "ไม่พบบทความนี้")
		return
	}
	if err != nil {
		writeServiceError(w, "blog lookup", err)
		return
	}

	if post.Status != models.BlogStatusPublished {
		user := optionalUser(r)
		if user == nil || !canEditBlogPost(user, &post) {
			writeMessage(w, http.StatusNotFound, "ไม่พบบทความนี้")
			return
		}
	}

	opts := options.Find().SetSort(bson.M{"createdAt": 1})
	cur, err := database.DB.Collection(database.CollBlogComments).Find(r.Context(), bson.M{"postId": post.ID}, opts)
	if err != nil {
		writeServiceError(w, "blog comments", err)
		return
	}
	defer cur.Close(r.Context())

	comments := []models.BlogComment{}
	if err := cur.All(r.Context(), &comments); err != nil {
		writeServiceError(w, "blog comments", err)
		return
	}

	writeData(w, http.StatusOK, map[string]interface{}{
		"post":     post,
		"comments": comments,
	})
}

// ListBlogPosts returns published posts, newest publication first, with
// optional tag and author filtering.
func ListBlogPosts(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{"status": models.BlogStatusPublished}
	if v := r.URL.Query().Get("tag"); v != "" {
		filter["tags"] = v
	}
	if v := r.URL.Query().Get("author"); v != "" {
		authorID, err := primitive.ObjectIDFromHex(v)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "Invalid author id")
			return
		}
		filter["authorId"] = authorID
	}

	opts := options.Find().SetSort(bson.M{"publishedAt": -1}).SetLimit(services.DefaultPageSize)
	cur, err := database.DB.Collection(database.CollBlogPosts).Find(r.Context(), filter, opts)
	if err != nil {
		writeServiceError(w, "list blog", err)
		return
	}
	defer cur.Close(r.Context())

	posts := []models.BlogPost{}
	if err := cur.All(r.Context(), &posts); err != nil {
		writeServiceError(w, "list blog", err)
		return
	}

	writeData(w, http.StatusOK, posts)
}

// ListMyBlogPosts returns the author's own posts in every status.
func ListMyBlogPosts(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	opts := options.Find().SetSort(bson.M{"updatedAt": -1})
	cur, err := database.DB.Collection(database.CollBlogPosts).Find(r.Context(), bson.M{"authorId": user.ID}, opts)
	if err != nil {
		writeServiceError(w, "my blog posts", err)
		return
	}
	defer cur.Close(r.Context())

	posts := []models.BlogPost{}
	if err := cur.All(r.Context(), &posts); err != nil {
		writeServiceError(w, "my blog posts", err)
		return
	}

	writeData(w, http.StatusOK, posts)
}

// UpdateBlogPost edits content fields. The slug never changes after creation,
// so published URLs stay stable.
func UpdateBlogPost(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	post, ok := loadBlogPost(w, r)
	if !ok {
		return
	}
	if !canEditBlogPost(user, post) {
		writeMessage(w, http.StatusForbidden, "คุณไม่มีสิทธิ์แก้ไขบทความนี้")
		return
	}

	var req BlogPostRequest
	if !decodeBody(w, r, &req) {
		return
	}

	_, err := database.DB.Collection(database.CollBlogPosts).UpdateOne(r.Context(), bson.M{"_id": post.ID}, bson.M{
		"$set": bson.M{
			"title":         req.Title,
			"excerpt":       req.Excerpt,
			"content":       req.Content,
			"coverImageURL": req.CoverImageURL,
			"tags":          req.Tags,
			"updatedAt":     time.Now(),
		},
	})
	if err != nil {
		writeServiceError(w, "blog update", err)
		return
	}

	writeMessage(w, http.StatusOK, "บันทึกบทความแล้ว")
}

// SetBlogPostStatus transitions draft/published/archived. publishedAt is set
// on the first transition to published and kept on re-publish.
func SetBlogPostStatus(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	post, ok := loadBlogPost(w, r)
	if !ok {
		return
	}
	if !canEditBlogPost(user, post) {
		writeMessage(w, http.StatusForbidden, "คุณไม่มีสิทธิ์แก้ไขบทความนี้")
		return
	}

	var req BlogStatusRequest
	if !decodeBody(w, r, &req) {
		return
	}

	now := time.Now()
	set := bson.M{"status": req.Status, "updatedAt": now}
	if req.Status == models.BlogStatusPublished && post.PublishedAt == nil {
		set["publishedAt"] = now
	}

	_, err := database.DB.Collection(database.CollBlogPosts).UpdateOne(r.Context(), bson.M{"_id": post.ID}, bson.M{"$set": set})
	if err != nil {
		writeServiceError(w, "blog status", err)
		return
	}

	if req.Status == models.BlogStatusPublished {
		services.PublishFeedEvent(r.Context(), services.FeedEvent{
			Type: "created", Topic: services.FeedTopicBlog, EntityID: post.ID.Hex(), Title: post.Title,
		})
	}

	writeMessage(w, http.StatusOK, "เปลี่ยนสถานะบทความแล้ว")
}

// DeleteBlogPost removes a post and its comments.
func DeleteBlogPost(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	post, ok := loadBlogPost(w, r)
	if !ok {
		return
	}
	if !canEditBlogPost(user, post) {
		writeMessage(w, http.StatusForbidden, "คุณไม่มีสิทธิ์ลบบทความนี้")
		return
	}

	if _, err := database.DB.Collection(database.CollBlogPosts).DeleteOne(r.Context(), bson.M{"_id": post.ID}); err != nil {
		writeServiceError(w, "blog delete", err)
		return
	}
	if _, err := database.DB.Collection(database.CollBlogComments).DeleteMany(r.Context(), bson.M{"postId": post.ID}); err != nil {
		services.LogError("blog delete comments", err)
	}

	writeMessage(w, http.StatusOK, "ลบบทความแล้ว")
}

// ToggleBlogLike flips the caller's like on a blog post.
func ToggleBlogLike(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	postID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid post id")
		return
	}

	liked, count, err := services.ToggleLike(r.Context(), database.CollBlogPosts, postID, user.ID)
	if err != nil {
		writeServiceError(w, "blog like", err)
		return
	}

	writeData(w, http.StatusOK, map[string]interface{}{"liked": liked, "like_count": count})
}

// CreateBlogComment adds a comment to a published post.
func CreateBlogComment(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	post, ok := loadBlogPost(w, r)
	if !ok {
		return
	}
	if post.Status != models.BlogStatusPublished {
		writeMessage(w, http.StatusNotFound, "ไม่พบบทความนี้")
		return
	}

	var req BlogCommentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !checkListingContent(w, req.Text) {
		return
	}

	now := time.Now()
	comment := models.BlogComment{
		ID:                primitive.NewObjectID(),
		CreatedAt:         now,
		UpdatedAt:         now,
		PostID:            post.ID,
		AuthorID:          user.ID,
		AuthorDisplayName: user.DisplayName,
		Text:              req.Text,
	}

	if _, err := database.DB.Collection(database.CollBlogComments).InsertOne(r.Context(), comment); err != nil {
		writeServiceError(w, "blog comment insert", err)
		return
	}

	writeData(w, http.StatusCreated, comment)
}

// DeleteBlogComment removes a comment; comment author, post author or admin.
func DeleteBlogComment(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	commentID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "commentId"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid comment id")
		return
	}

	var comment models.BlogComment
	err = database.DB.Collection(database.CollBlogComments).FindOne(r.Context(), bson.M{"_id": commentID}).Decode(&comment)
	if err == mongo.ErrNoDocuments {
		writeMessage(w, http.StatusNotFound, "ไม่พบความคิดเห็นนี้")
		return
	}
	if err != nil {
		writeServiceError(w, "blog comment lookup", err)
		return
	}

	allowed := comment.AuthorID == user.ID || user.Role == models.RoleAdmin
	if !allowed {
		var post models.BlogPost
		if err := database.DB.Collection(database.CollBlogPosts).FindOne(r.Context(), bson.M{"_id": comment.PostID}).Decode(&post); err == nil {
			allowed = post.AuthorID == user.ID
		}
	}
	if !allowed {
		writeMessage(w, http.StatusForbidden, "คุณไม่มีสิทธิ์ลบความคิดเห็นนี้")
		return
	}

	if _, err := database.DB.Collection(database.CollBlogComments).DeleteOne(r.Context(), bson.M{"_id": commentID}); err != nil {
		writeServiceError(w, "blog comment delete", err)
		return
	}

	writeMessage(w, http.StatusOK, "ลบความคิดเห็นแล้ว")
}

type BlogSuggestRequest struct {
	Content string `json:"content" validate:"required"`
}

// SuggestBlogMeta asks the AI service for a title/excerpt suggestion for a
// draft body. 503 when the AI service is not configured.
func SuggestBlogMeta(w http.ResponseWriter, r *http.Request) {
	var req BlogSuggestRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := aiClient.SuggestBlogMeta(r.Context(), req.Content)
	if err == services.ErrAIUnavailable {
		writeMessage(w, http.StatusServiceUnavailable, "ระบบ AI ยังไม่พร้อมใช้งาน")
		return
	}
	if err != nil {
		writeServiceError(w, "blog suggest", err)
		return
	}

	writeData(w, http.StatusOK, resp)
}
