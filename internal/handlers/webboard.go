package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hajobja/hajobja-backend/internal/database"
	"github.com/hajobja/hajobja-backend/internal/middleware"
	"github.com/hajobja/hajobja-backend/internal/models"
	"github.com/hajobja/hajobja-backend/internal/services"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type WebboardPostRequest struct {
	Title    string `json:"title" validate:"required,max=120"`
	Body     string `json:"body" validate:"required,max=10000"`
	Category string `json:"category" validate:"required,max=60"`
	ImageURL string `json:"image_url" validate:"omitempty,url,max=500"`
}

type WebboardCommentRequest struct {
	Text string `json:"text" validate:"required,max=3000"`
}

// CreateWebboardPost creates a community forum post.
func CreateWebboardPost(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	var req WebboardPostRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !checkListingContent(w, req.Title, req.Body) {
		return
	}

	now := time.Now()
	post := models.WebboardPost{
		ID:                primitive.NewObjectID(),
		CreatedAt:         now,
		UpdatedAt:         now,
		AuthorID:          user.ID,
		AuthorDisplayName: user.DisplayName,
		Title:             req.Title,
		Body:              req.Body,
		Category:          req.Category,
		ImageURL:          req.ImageURL,
	}

	if _, err := database.DB.Collection(database.CollWebboardPosts).InsertOne(r.Context(), post); err != nil {
		writeServiceError(w, "webboard insert", err)
		return
	}

	services.PublishFeedEvent(r.Context(), services.FeedEvent{
		Type: "created", Topic: services.FeedTopicWebboard, EntityID: post.ID.Hex(), Title: post.Title,
	})

	writeData(w, http.StatusCreated, post)
}

func loadWebboardPost(w http.ResponseWriter, r *http.Request) (*models.WebboardPost, bool) {
	postID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid post id")
		return nil, false
	}

	var post models.WebboardPost
	err = database.DB.Collection(database.CollWebboardPosts).FindOne(r.Context(), bson.M{"_id": postID}).Decode(&post)
	if err == mongo.ErrNoDocuments {
		writeMessage(w, http.StatusNotFound, "ไม่พบกระทู้นี้")
		return nil, false
	}
	if err != nil {
		writeServiceError(w, "webboard lookup", err)
		return nil, false
	}
	return &post, true
}

// GetWebboardPost returns a post with its comments, oldest first.
func GetWebboardPost(w http.ResponseWriter, r *http.Request) {
	post, ok := loadWebboardPost(w, r)
	if !ok {
		return
	}

	opts := options.Find().SetSort(bson.M{"createdAt": 1})
	cur, err := database.DB.Collection(database.CollWebboardComments).Find(r.Context(), bson.M{"postId": post.ID}, opts)
	if err != nil {
		writeServiceError(w, "webboard comments", err)
		return
	}
	defer cur.Close(r.Context())

	comments := []models.WebboardComment{}
	if err := cur.All(r.Context(), &comments); err != nil {
		writeServiceError(w, "webboard comments", err)
		return
	}

	writeData(w, http.StatusOK, map[string]interface{}{
		"post":     post,
		"comments": comments,
	})
}

// UpdateWebboardPost edits a post; author or moderator+.
func UpdateWebboardPost(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	post, ok := loadWebboardPost(w, r)
	if !ok {
		return
	}
	if post.AuthorID != user.ID && !user.IsModeratorOrAbove() {
		writeMessage(w, http.StatusForbidden, "คุณไม่มีสิทธิ์แก้ไขกระทู้นี้")
		return
	}

	var req WebboardPostRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !checkListingContent(w, req.Title, req.Body) {
		return
	}

	_, err := database.DB.Collection(database.CollWebboardPosts).UpdateOne(r.Context(), bson.M{"_id": post.ID}, bson.M{
		"$set": bson.M{
			"title":     req.Title,
			"body":      req.Body,
			"category":  req.Category,
			"imageURL":  req.ImageURL,
			"updatedAt": time.Now(),
		},
	})
	if err != nil {
		writeServiceError(w, "webboard update", err)
		return
	}

	services.PublishFeedEvent(r.Context(), services.FeedEvent{
		Type: "updated", Topic: services.FeedTopicWebboard, EntityID: post.ID.Hex(), Title: req.Title,
	})

	writeMessage(w, http.StatusOK, "บันทึกกระทู้แล้ว")
}

// DeleteWebboardPost removes a post and its comments; author or moderator+.
func DeleteWebboardPost(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	post, ok := loadWebboardPost(w, r)
	if !ok {
		return
	}
	if post.AuthorID != user.ID && !user.IsModeratorOrAbove() {
		writeMessage(w, http.StatusForbidden, "คุณไม่มีสิทธิ์ลบกระทู้นี้")
		return
	}

	if _, err := database.DB.Collection(database.CollWebboardPosts).DeleteOne(r.Context(), bson.M{"_id": post.ID}); err != nil {
		writeServiceError(w, "webboard delete", err)
		return
	}
	if _, err := database.DB.Collection(database.CollWebboardComments).DeleteMany(r.Context(), bson.M{"postId": post.ID}); err != nil {
		services.LogError("webboard delete comments", err)
	}

	services.PublishFeedEvent(r.Context(), services.FeedEvent{
		Type: "deleted", Topic: services.FeedTopicWebboard, EntityID: post.ID.Hex(),
	})

	writeMessage(w, http.StatusOK, "ลบกระทู้แล้ว")
}

// ListWebboardPosts returns one page of posts, pinned first, with optional
// category filter and server-side search over title and body.
func ListWebboardPosts(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	if v := r.URL.Query().Get("category"); v != "" {
		filter["category"] = v
	}
	if v := r.URL.Query().Get("search"); v != "" {
		filter["$or"] = bson.A{
			bson.M{"title": bson.M{"$regex": v, "$options": "i"}},
			bson.M{"body": bson.M{"$regex": v, "$options": "i"}},
		}
	}

	cursor, err := services.DecodeCursor(r.URL.Query().Get("cursor"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid cursor")
		return
	}

	posts := []models.WebboardPost{}
	if err := services.FindListingPage(r.Context(), database.CollWebboardPosts, filter, cursor, &posts); err != nil {
		writeServiceError(w, "list webboard", err)
		return
	}

	writeJSON(w, http.StatusOK, ListResponse{
		Success:    true,
		Items:      posts,
		NextCursor: services.NextCursorFromWebboard(posts),
	})
}

// ToggleWebboardLike flips the caller's like on a post.
func ToggleWebboardLike(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	postID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid post id")
		return
	}

	liked, count, err := services.ToggleLike(r.Context(), database.CollWebboardPosts, postID, user.ID)
	if err != nil {
		writeServiceError(w, "webboard like", err)
		return
	}

	writeData(w, http.StatusOK, map[string]interface{}{"liked": liked, "like_count": count})
}

// CreateWebboardComment adds a comment to a post.
func CreateWebboardComment(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	post, ok := loadWebboardPost(w, r)
	if !ok {
		return
	}

	var req WebboardCommentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !checkListingContent(w, req.Text) {
		return
	}

	now := time.Now()
	comment := models.WebboardComment{
		ID:                primitive.NewObjectID(),
		CreatedAt:         now,
		UpdatedAt:         now,
		PostID:            post.ID,
		AuthorID:          user.ID,
		AuthorDisplayName: user.DisplayName,
		Text:              req.Text,
	}

	if _, err := database.DB.Collection(database.CollWebboardComments).InsertOne(r.Context(), comment); err != nil {
		writeServiceError(w, "comment insert", err)
		return
	}

	writeData(w, http.StatusCreated, comment)
}

// UpdateWebboardComment edits a comment; author only.
func UpdateWebboardComment(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	commentID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "commentId"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid comment id")
		return
	}

	var comment models.WebboardComment
	err = database.DB.Collection(database.CollWebboardComments).FindOne(r.Context(), bson.M{"_id": commentID}).Decode(&comment)
	if err == mongo.ErrNoDocuments {
		writeMessage(w, http.StatusNotFound, "ไม่พบความคิดเห็นนี้")
		return
	}
	if err != nil {
		writeServiceError(w, "comment lookup", err)
		return
	}

	if comment.AuthorID != user.ID {
		writeMessage(w, http.StatusForbidden, "คุณไม่มีสิทธิ์แก้ไขความคิดเห็นนี้")
		return
	}

	var req WebboardCommentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !checkListingContent(w, req.Text) {
		return
	}

	_, err = database.DB.Collection(database.CollWebboardComments).UpdateOne(r.Context(), bson.M{"_id": commentID}, bson.M{
		"$set": bson.M{"text": req.Text, "updatedAt": time.Now()},
	})
	if err != nil {
		writeServiceError(w, "comment update", err)
		return
	}

	writeMessage(w, http.StatusOK, "บันทึกความคิดเห็นแล้ว")
}

// ToggleWebboardPin flips isPinned on a post. Moderator or Admin, gated by routing.
func ToggleWebboardPin(w http.ResponseWriter, r *http.Request) {
	postID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid post id")
		return
	}

	newValue, err := services.ToggleListingFlag(r.Context(), database.CollWebboardPosts, postID, "isPinned")
	if err != nil {
		writeServiceError(w, "toggle pin", err)
		return
	}
	writeData(w, http.StatusOK, map[string]bool{"is_pinned": newValue})
}

// DeleteWebboardComment removes a comment; author or moderator+.
func DeleteWebboardComment(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	commentID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "commentId"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid comment id")
		return
	}

	var comment models.WebboardComment
	err = database.DB.Collection(database.CollWebboardComments).FindOne(r.Context(), bson.M{"_id": commentID}).Decode(&comment)
	if err == mongo.ErrNoDocuments {
		writeMessage(w, http.StatusNotFound, "ไม่พบความคิดเห็นนี้")
		return
	}
	if err != nil {
		writeServiceError(w, "comment lookup", err)
		return
	}

	if comment.AuthorID != user.ID && !user.IsModeratorOrAbove() {
		writeMessage(w, http.StatusForbidden, "คุณไม่มีสิทธิ์ลบความคิดเห็นนี้")
		return
	}

	if _, err := database.DB.Collection(database.CollWebboardComments).DeleteOne(r.Context(), bson.M{"_id": commentID}); err != nil {
		writeServiceError(w, "comment delete", err)
		return
	}

	writeMessage(w, http.StatusOK, "ลบความคิดเห็นแล้ว")
}

// ListSavedPosts returns the caller's saved webboard posts.
func ListSavedPosts(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	if len(user.SavedPosts) == 0 {
		writeData(w, http.StatusOK, []models.WebboardPost{})
		return
	}

	opts := options.Find().SetSort(bson.M{"updatedAt": -1})
	cur, err := database.DB.Collection(database.CollWebboardPosts).Find(r.Context(), bson.M{"_id": bson.M{"$in": user.SavedPosts}}, opts)
	if err != nil {
		writeServiceError(w, "saved posts", err)
		return
	}
	defer cur.Close(r.Context())

	posts := []models.WebboardPost{}
	if err := cur.All(r.Context(), &posts); err != nil {
		writeServiceError(w, "saved posts", err)
		return
	}

	writeData(w, http.StatusOK, posts)
}
