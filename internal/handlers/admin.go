package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
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

// auditAction appends an admin action to the PostgreSQL audit trail.
// Failures are logged, not surfaced: the action itself already succeeded.
func auditAction(r *http.Request, adminID primitive.ObjectID, action, targetType, targetID, detail string) {
	_, err := database.PostgresDB.ExecContext(r.Context(), `
		INSERT INTO audit_log (admin_user_id, action, target_type, target_id, detail)
		VALUES ($1, $2, $3, $4, $5)`,
		adminID.Hex(), action, targetType, targetID, detail,
	)
	if err != nil {
		services.LogError("audit log", err)
	}
}

type SetUserRoleRequest struct {
	Role models.UserRole `json:"role" validate:"required,oneof=Admin Moderator Member Writer"`
}

// SetUserRole changes another user's role. Admins cannot demote themselves,
// which keeps at least the acting admin in place.
func SetUserRole(w http.ResponseWriter, r *http.Request) {
	admin := middleware.UserFromContext(r.Context())

	userID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid user id")
		return
	}
	if userID == admin.ID {
		writeMessage(w, http.StatusBadRequest, "ไม่สามารถเปลี่ยนบทบาทของตัวเองได้")
		return
	}

	var req SetUserRoleRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := database.DB.Collection(database.CollUsers).UpdateOne(r.Context(), bson.M{"_id": userID}, bson.M{
		"$set": bson.M{"role": req.Role, "updated_at": time.Now()},
	})
	if err != nil {
		writeServiceError(w, "set role", err)
		return
	}
	if result.MatchedCount == 0 {
		writeMessage(w, http.StatusNotFound, "ไม่พบผู้ใช้นี้")
		return
	}

	// Role changes invalidate existing sessions so stale privileges
	// can't outlive the change.
	if err := services.InvalidateUserSessions(r.Context(), userID); err != nil {
		services.LogError("invalidate sessions", err)
	}

	auditAction(r, admin.ID, "set_role", "user", userID.Hex(), string(req.Role))
	writeMessage(w, http.StatusOK, "เปลี่ยนบทบาทผู้ใช้แล้ว")
}

// ListUsers returns users for the admin panel, newest first, with optional
// username/email search.
func ListUsers(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	if v := r.URL.Query().Get("search"); v != "" {
		filter["$or"] = bson.A{
			bson.M{"username": bson.M{"$regex": v, "$options": "i"}},
			bson.M{"email": bson.M{"$regex": v, "$options": "i"}},
			bson.M{"displayName": bson.M{"$regex": v, "$options": "i"}},
		}
	}

	opts := options.Find().SetSort(bson.M{"created_at": -1}).SetLimit(100)
	cur, err := database.DB.Collection(database.CollUsers).Find(r.Context(), filter, opts)
	if err != nil {
		writeServiceError(w, "list users", err)
		return
	}
	defer cur.Close(r.Context())

	users := []models.User{}
	if err := cur.All(r.Context(), &users); err != nil {
		writeServiceError(w, "list users", err)
		return
	}

	writeData(w, http.StatusOK, users)
}

// adminFlagCollections maps the URL segment to the collection a flag toggle targets.
var adminFlagCollections = map[string]string{
	"jobs":     database.CollJobs,
	"helpers":  database.CollHelperProfiles,
	"webboard": database.CollWebboardPosts,
}

// ToggleAdminFlag atomically flips a moderation flag (isSuspicious, isPinned,
// adminVerifiedExperience) on a listing or webboard post.
func ToggleAdminFlag(w http.ResponseWriter, r *http.Request) {
	admin := middleware.UserFromContext(r.Context())

	collName, ok := adminFlagCollections[chi.URLParam(r, "kind")]
	if !ok {
		writeMessage(w, http.StatusNotFound, "Unknown listing kind")
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid id")
		return
	}

	flag := chi.URLParam(r, "flag")
	newValue, err := services.ToggleListingFlag(r.Context(), collName, id, flag)
	if err != nil {
		writeServiceError(w, "toggle flag", err)
		return
	}

	auditAction(r, admin.ID, "toggle_"+flag, collName, id.Hex(), strconv.FormatBool(newValue))
	writeData(w, http.StatusOK, map[string]bool{flag: newValue})
}

// ToggleUserBadge flips a user's activity badge, which raises their listing quota.
func ToggleUserBadge(w http.ResponseWriter, r *http.Request) {
	admin := middleware.UserFromContext(r.Context())

	userID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	var user models.User
	err = database.DB.Collection(database.CollUsers).FindOneAndUpdate(r.Context(),
		bson.M{"_id": userID},
		bson.A{bson.M{"$set": bson.M{"hasActivityBadge": bson.M{"$not": "$hasActivityBadge"}}}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err == mongo.ErrNoDocuments {
		writeMessage(w, http.StatusNotFound, "ไม่พบผู้ใช้นี้")
		return
	}
	if err != nil {
		writeServiceError(w, "toggle badge", err)
		return
	}

	auditAction(r, admin.ID, "toggle_badge", "user", userID.Hex(), strconv.FormatBool(user.HasActivityBadge))
	writeData(w, http.StatusOK, map[string]bool{"has_activity_badge": user.HasActivityBadge})
}

// ListVouchReports returns reports, pending first, newest first within status.
func ListVouchReports(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	if v := r.URL.Query().Get("status"); v != "" {
		filter["status"] = v
	}

	opts := options.Find().SetSort(bson.D{
		{Key: "status", Value: 1},
		{Key: "createdAt", Value: -1},
	}).SetLimit(100)
	cur, err := database.DB.Collection(database.CollVouchReports).Find(r.Context(), filter, opts)
	if err != nil {
		writeServiceError(w, "list reports", err)
		return
	}
	defer cur.Close(r.Context())

	reports := []models.VouchReport{}
	if err := cur.All(r.Context(), &reports); err != nil {
		writeServiceError(w, "list reports", err)
		return
	}

	writeData(w, http.StatusOK, reports)
}

type ResolveVouchReportRequest struct {
	Resolution models.VouchReportStatus `json:"resolution" validate:"required,oneof=resolved_kept resolved_deleted"`
}

// ResolveVouchReport settles a pending report. resolved_deleted removes the
// vouch and winds back the vouchee's counters atomically.
func ResolveVouchReport(w http.ResponseWriter, r *http.Request) {
	admin := middleware.UserFromContext(r.Context())

	reportID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid report id")
		return
	}

	var req ResolveVouchReportRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := services.ResolveVouchReport(r.Context(), admin.ID, reportID, req.Resolution); err != nil {
		writeServiceError(w, "resolve report", err)
		return
	}

	auditAction(r, admin.ID, "resolve_vouch_report", "vouch_report", reportID.Hex(), string(req.Resolution))
	writeMessage(w, http.StatusOK, "ดำเนินการรายงานแล้ว")
}

// ForceResolveVouchReport is the escape hatch for reports whose vouch has
// already disappeared.
func ForceResolveVouchReport(w http.ResponseWriter, r *http.Request) {
	admin := middleware.UserFromContext(r.Context())

	reportID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid report id")
		return
	}

	if err := services.ForceResolveVouchReport(r.Context(), admin.ID, reportID); err != nil {
		writeServiceError(w, "force resolve report", err)
		return
	}

	auditAction(r, admin.ID, "force_resolve_vouch_report", "vouch_report", reportID.Hex(), "")
	writeMessage(w, http.StatusOK, "ดำเนินการรายงานแล้ว")
}

// DashboardStats is the aggregate snapshot behind the admin dashboard,
// cached in Redis for a minute.
type DashboardStats struct {
	TotalUsers          int64 `json:"total_users"`
	TotalJobs           int64 `json:"total_jobs"`
	ActiveJobs          int64 `json:"active_jobs"`
	TotalHelperProfiles int64 `json:"total_helper_profiles"`
	ActiveHelpers       int64 `json:"active_helpers"`
	WebboardPosts       int64 `json:"webboard_posts"`
	BlogPosts           int64 `json:"blog_posts"`
	PendingVouchReports int64 `json:"pending_vouch_reports"`
	SuspiciousListings  int64 `json:"suspicious_listings"`
}

func collectDashboardStats(r *http.Request) (*DashboardStats, error) {
	ctx := r.Context()
	stats := &DashboardStats{}

	counts := []struct {
		coll   string
		filter bson.M
		dest   *int64
	}{
		{database.CollUsers, bson.M{}, &stats.TotalUsers},
		{database.CollJobs, bson.M{}, &stats.TotalJobs},
		{database.CollJobs, bson.M{"isExpired": false}, &stats.ActiveJobs},
		{database.CollHelperProfiles, bson.M{}, &stats.TotalHelperProfiles},
		{database.CollHelperProfiles, bson.M{"isExpired": false}, &stats.ActiveHelpers},
		{database.CollWebboardPosts, bson.M{}, &stats.WebboardPosts},
		{database.CollBlogPosts, bson.M{}, &stats.BlogPosts},
		{database.CollVouchReports, bson.M{"status": models.VouchReportPending}, &stats.PendingVouchReports},
		{database.CollJobs, bson.M{"isSuspicious": true}, &stats.SuspiciousListings},
	}

	for _, c := range counts {
		n, err := database.DB.Collection(c.coll).CountDocuments(ctx, c.filter)
		if err != nil {
			return nil, err
		}
		*c.dest = n
	}
	return stats, nil
}

// GetDashboard returns the cached admin dashboard aggregates.
func GetDashboard(w http.ResponseWriter, r *http.Request) {
	var stats DashboardStats
	if hit, _ := services.Cache.Get(r.Context(), services.DashboardCacheKey, &stats); hit {
		writeData(w, http.StatusOK, stats)
		return
	}

	fresh, err := collectDashboardStats(r)
	if err != nil {
		writeServiceError(w, "dashboard", err)
		return
	}

	if err := services.Cache.Set(r.Context(), services.DashboardCacheKey, fresh, services.DashboardCacheTTL); err != nil {
		services.LogError("dashboard cache", err)
	}

	writeData(w, http.StatusOK, fresh)
}

type OrionRequest struct {
	Command string `json:"command" validate:"required,max=2000"`
}

// Orion runs a natural-language admin command against the site statistics
// through the AI service.
func Orion(w http.ResponseWriter, r *http.Request) {
	var req OrionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	stats, err := collectDashboardStats(r)
	if err != nil {
		writeServiceError(w, "orion stats", err)
		return
	}
	statsJSON, err := json.Marshal(stats)
	if err != nil {
		writeServiceError(w, "orion stats", err)
		return
	}

	resp, err := aiClient.Analyze(r.Context(), req.Command, statsJSON)
	if err == services.ErrAIUnavailable {
		writeMessage(w, http.StatusServiceUnavailable, "ระบบ AI ยังไม่พร้อมใช้งาน")
		return
	}
	if err != nil {
		writeServiceError(w, "orion", err)
		return
	}

	writeData(w, http.StatusOK, resp)
}

// RunCleanup triggers the two-phase expiry sweep on demand.
func RunCleanup(w http.ResponseWriter, r *http.Request) {
	admin := middleware.UserFromContext(r.Context())

	marked, err := services.MarkExpiredPosts(r.Context())
	if err != nil {
		writeServiceError(w, "cleanup mark", err)
		return
	}
	deleted, failed, err := services.CleanupExpiredPosts(r.Context())
	if err != nil {
		writeServiceError(w, "cleanup delete", err)
		return
	}

	auditAction(r, admin.ID, "run_cleanup", "", "",
		"marked="+strconv.FormatInt(marked, 10)+" deleted="+strconv.Itoa(deleted)+" failed="+strconv.Itoa(failed))

	writeData(w, http.StatusOK, map[string]interface{}{
		"marked":  marked,
		"deleted": deleted,
		"failed":  failed,
	})
}

// GetSiteConfig returns the shared site config document, cached in Redis.
// Public route: the frontend reads announcement/maintenance state on load.
func GetSiteConfig(w http.ResponseWriter, r *http.Request) {
	var config models.SiteConfig
	if hit, _ := services.Cache.Get(r.Context(), services.SiteConfigCacheKey, &config); hit {
		writeData(w, http.StatusOK, config)
		return
	}

	err := database.DB.Collection(database.CollSiteConfig).FindOne(r.Context(), bson.M{"_id": "main"}).Decode(&config)
	if err == mongo.ErrNoDocuments {
		config = models.SiteConfig{ID: "main"}
	} else if err != nil {
		writeServiceError(w, "site config", err)
		return
	}

	if err := services.Cache.Set(r.Context(), services.SiteConfigCacheKey, config, services.SiteConfigCacheTTL); err != nil {
		services.LogError("site config cache", err)
	}

	writeData(w, http.StatusOK, config)
}

type SiteConfigRequest struct {
	AnnouncementText string `json:"announcement_text" validate:"omitempty,max=500"`
	MaintenanceMode  bool   `json:"maintenance_mode"`
}

// SetSiteConfig upserts the site config document and drops the cache.
func SetSiteConfig(w http.ResponseWriter, r *http.Request) {
	admin := middleware.UserFromContext(r.Context())

	var req SiteConfigRequest
	if !decodeBody(w, r, &req) {
		return
	}

	config := models.SiteConfig{
		ID:               "main",
		AnnouncementText: req.AnnouncementText,
		MaintenanceMode:  req.MaintenanceMode,
		UpdatedAt:        time.Now(),
		UpdatedBy:        admin.ID,
	}

	opts := options.Replace().SetUpsert(true)
	if _, err := database.DB.Collection(database.CollSiteConfig).ReplaceOne(r.Context(), bson.M{"_id": "main"}, config, opts); err != nil {
		writeServiceError(w, "site config update", err)
		return
	}

	if err := services.Cache.Delete(r.Context(), services.SiteConfigCacheKey); err != nil {
		services.LogError("site config cache delete", err)
	}

	auditAction(r, admin.ID, "set_site_config", "site_config", "main", "")
	writeData(w, http.StatusOK, config)
}

type UnblockIPRequest struct {
	IP string `json:"ip" validate:"required,ip"`
}

// UnblockIP lifts a rate-limit block on an IP address.
func UnblockIP(w http.ResponseWriter, r *http.Request) {
	admin := middleware.UserFromContext(r.Context())

	var req UnblockIPRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := middleware.UnblockIP(r.Context(), req.IP); err != nil {
		writeServiceError(w, "unblock ip", err)
		return
	}

	auditAction(r, admin.ID, "unblock_ip", "ip", req.IP, "")
	writeMessage(w, http.StatusOK, "ปลดบล็อค IP แล้ว")
}

// ListAuditLog returns recent admin actions from PostgreSQL.
func ListAuditLog(w http.ResponseWriter, r *http.Request) {
	rows, err := database.PostgresDB.QueryContext(r.Context(), `
		SELECT id, created_at, admin_user_id, action, COALESCE(target_type, ''), COALESCE(target_id, ''), COALESCE(detail, '')
		FROM audit_log ORDER BY created_at DESC LIMIT 200`)
	if err != nil {
		writeServiceError(w, "audit list", err)
		return
	}
	defer rows.Close()

	type auditEntry struct {
		ID          string    `json:"id"`
		CreatedAt   time.Time `json:"created_at"`
		AdminUserID string    `json:"admin_user_id"`
		Action      string    `json:"action"`
		TargetType  string    `json:"target_type,omitempty"`
		TargetID    string    `json:"target_id,omitempty"`
		Detail      string    `json:"detail,omitempty"`
	}

	entries := []auditEntry{}
	for rows.Next() {
		var e auditEntry
		if err := rows.Scan(&e.ID, &e.CreatedAt, &e.AdminUserID, &e.Action, &e.TargetType, &e.TargetID, &e.Detail); err != nil {
			writeServiceError(w, "audit scan", err)
			return
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		writeServiceError(w, "audit rows", err)
		return
	}

	writeData(w, http.StatusOK, entries)
}

// ListInteractions returns recent employer→helper contact events, optionally
// filtered by helper user id.
func ListInteractions(w http.ResponseWriter, r *http.Request) {
	query := `
		SELECT id, created_at, helper_profile_id, employer_user_id, helper_user_id, type
		FROM interactions`
	args := []interface{}{}
	if v := r.URL.Query().Get("helper_user_id"); v != "" {
		query += ` WHERE helper_user_id = $1`
		args = append(args, v)
	}
	query += ` ORDER BY created_at DESC LIMIT 200`

	rows, err := database.PostgresDB.QueryContext(r.Context(), query, args...)
	if err != nil {
		writeServiceError(w, "interactions list", err)
		return
	}
	defer rows.Close()

	interactions := []models.Interaction{}
	for rows.Next() {
		var i models.Interaction
		if err := rows.Scan(&i.ID, &i.CreatedAt, &i.HelperProfileID, &i.EmployerUserID, &i.HelperUserID, &i.Type); err != nil {
			writeServiceError(w, "interactions scan", err)
			return
		}
		interactions = append(interactions, i)
	}
	if err := rows.Err(); err != nil {
		writeServiceError(w, "interactions rows", err)
		return
	}

	writeData(w, http.StatusOK, interactions)
}
