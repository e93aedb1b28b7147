package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type VouchType string

const (
	VouchTypeWorkedTogether VouchType = "worked_together"
	VouchTypeColleague      VouchType = "colleague"
	VouchTypeCommunity      VouchType = "community"
	VouchTypePersonal       VouchType = "personal"
)

// ValidVouchType reports whether t is one of the four fixed vouch types.
func ValidVouchType(t VouchType) bool {
	switch t {
	case VouchTypeWorkedTogether, VouchTypeColleague, VouchTypeCommunity, VouchTypePersonal:
		return true
	}
	return false
}

type Vouch struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"createdAt" json:"created_at"`

	VoucherID          primitive.ObjectID `bson:"voucherId" json:"voucher_id"`
	VoucherDisplayName string             `bson:"voucherDisplayName" json:"voucher_display_name"`
	VoucheeID          primitive.ObjectID `bson:"voucheeId" json:"vouchee_id"`

	VouchType VouchType `bson:"vouchType" json:"vouch_type"`
	Comment   string    `bson:"comment,omitempty" json:"comment,omitempty"`
}

type VouchReportStatus string

const (
	VouchReportPending         VouchReportStatus = "pending_review"
	VouchReportResolvedKept    VouchReportStatus = "resolved_kept"
	VouchReportResolvedDeleted VouchReportStatus = "resolved_deleted"
)

type VouchReport struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"createdAt" json:"created_at"`

	VouchID    primitive.ObjectID `bson:"vouchId" json:"vouch_id"`
	ReporterID primitive.ObjectID `bson:"reporterId" json:"reporter_id"`
	Reason     string             `bson:"reason,omitempty" json:"reason,omitempty"`

	Status     VouchReportStatus   `bson:"status" json:"status"`
	ResolvedAt *time.Time          `bson:"resolvedAt,omitempty" json:"resolved_at,omitempty"`
	ResolvedBy *primitive.ObjectID `bson:"resolvedBy,omitempty" json:"resolved_by,omitempty"`
}
