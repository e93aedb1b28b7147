package services

import (
	"context"
	"time"

	"github.com/hajobja/hajobja-backend/internal/database"
	"github.com/hajobja/hajobja-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MaxVouchesPerMonth is the per-voucher quota per calendar month.
const MaxVouchesPerMonth = 5

// CurrentVouchingActivity returns the activity with the monthly counter reset
// applied: when the stored period's month/year differ from now, the count
// starts over at zero for the current period. Pure.
func CurrentVouchingActivity(va models.VouchingActivity, now time.Time) models.VouchingActivity {
	if va.PeriodMonth != int(now.Month()) || va.PeriodYear != now.Year() {
		return models.VouchingActivity{Count: 0, PeriodMonth: int(now.Month()), PeriodYear: now.Year()}
	}
	return va
}

// CanVouch reports whether the voucher has quota left this calendar month.
func CanVouch(va models.VouchingActivity, now time.Time) bool {
	return CurrentVouchingActivity(va, now).Count < MaxVouchesPerMonth
}

// vouchCounterInc returns the $inc document applied to the vouchee when a
// vouch of the given type is created. vouchCounterDec is its exact inverse,
// so create followed by resolved_deleted restores the stored counters.
func vouchCounterInc(t models.VouchType) bson.M {
	return bson.M{
		"vouchInfo.total":        1,
		"vouchInfo." + string(t): 1,
	}
}

func vouchCounterDec(t models.VouchType) bson.M {
	return bson.M{
		"vouchInfo.total":        -1,
		"vouchInfo." + string(t): -1,
	}
}

// CreateVouch inserts a vouch and updates both sides in one transaction:
// the vouchee's vouchInfo.total and vouchInfo.<type> go up by one, and the
// voucher's monthly counter advances. The quota is re-checked inside the
// transaction against the voucher's stored state.
func CreateVouch(ctx context.Context, voucher *models.User, voucheeID primitive.ObjectID, vouchType models.VouchType, comment string) (*models.Vouch, error) {
	if voucher.ID == voucheeID {
		return nil, ErrSelfVouch
	}
	if !models.ValidVouchType(vouchType) {
		return nil, ErrNotFound
	}

	session, err := database.Client.StartSession()
	if err != nil {
		return nil, err
	}
	defer session.EndSession(ctx)

	result, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		users := database.DB.Collection(database.CollUsers)
		now := time.Now()

		var storedVoucher models.User
		if err := users.FindOne(sc, bson.M{"_id": voucher.ID}).Decode(&storedVoucher); err != nil {
			return nil, err
		}

		if !CanVouch(storedVoucher.PostingLimits.VouchingActivity, now) {
			return nil, ErrQuotaExceeded
		}
		activity := CurrentVouchingActivity(storedVoucher.PostingLimits.VouchingActivity, now)

		// Vouchee must exist before counters move
		var vouchee models.User
		if err := users.FindOne(sc, bson.M{"_id": voucheeID}).Decode(&vouchee); err != nil {
			if err == mongo.ErrNoDocuments {
				return nil, ErrNotFound
			}
			return nil, err
		}

		vouch := models.Vouch{
			ID:                 primitive.NewObjectID(),
			CreatedAt:          now,
			VoucherID:          voucher.ID,
			VoucherDisplayName: storedVoucher.DisplayName,
			VoucheeID:          voucheeID,
			VouchType:          vouchType,
			Comment:            comment,
		}
		if _, err := database.DB.Collection(database.CollVouches).InsertOne(sc, vouch); err != nil {
			return nil, err
		}

		if _, err := users.UpdateOne(sc, bson.M{"_id": voucheeID}, bson.M{"$inc": vouchCounterInc(vouchType)}); err != nil {
			return nil, err
		}

		activity.Count++
		if _, err := users.UpdateOne(sc, bson.M{"_id": voucher.ID}, bson.M{
			"$set": bson.M{"postingLimits.vouchingActivity": activity},
		}); err != nil {
			return nil, err
		}

		return &vouch, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*models.Vouch), nil
}

// ListVouchesForUser returns vouches received by a user, newest first.
func ListVouchesForUser(ctx context.Context, voucheeID primitive.ObjectID) ([]models.Vouch, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := database.DB.Collection(database.CollVouches).Find(ctx, bson.M{"voucheeId": voucheeID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	vouches := []models.Vouch{}
	if err := cursor.All(ctx, &vouches); err != nil {
		return nil, err
	}
	return vouches, nil
}

// CreateVouchReport files a dispute against a vouch. Plain insert, status
// pending_review; the voucher may report their own vouch to request withdrawal.
func CreateVouchReport(ctx context.Context, vouchID, reporterID primitive.ObjectID, reason string) (*models.VouchReport, error) {
	count, err := database.DB.Collection(database.CollVouches).CountDocuments(ctx, bson.M{"_id": vouchID})
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrNotFound
	}

	report := models.VouchReport{
		ID:         primitive.NewObjectID(),
		CreatedAt:  time.Now(),
		VouchID:    vouchID,
		ReporterID: reporterID,
		Reason:     reason,
		Status:     models.VouchReportPending,
	}
	if _, err := database.DB.Collection(database.CollVouchReports).InsertOne(ctx, report); err != nil {
		return nil, err
	}
	return &report, nil
}

// deleteVouchAndDecrement removes the vouch and winds back the vouchee's
// counters. Must run inside a session context.
func deleteVouchAndDecrement(sc mongo.SessionContext, vouch *models.Vouch) error {
	if _, err := database.DB.Collection(database.CollVouches).DeleteOne(sc, bson.M{"_id": vouch.ID}); err != nil {
		return err
	}
	_, err := database.DB.Collection(database.CollUsers).UpdateOne(sc, bson.M{"_id": vouch.VoucheeID}, bson.M{"$inc": vouchCounterDec(vouch.VouchType)})
	return err
}

// ResolveVouchReport transitions a pending report. resolved_kept has no side
// effect; resolved_deleted deletes the vouch and decrements the vouchee's
// counters in the same transaction. Returns ErrVouchMissing when the
// underlying vouch is already gone - use ForceResolveVouchReport then.
func ResolveVouchReport(ctx context.Context, adminID, reportID primitive.ObjectID, resolution models.VouchReportStatus) error {
	if resolution != models.VouchReportResolvedKept && resolution != models.VouchReportResolvedDeleted {
		return ErrNotFound
	}

	session, err := database.Client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		reports := database.DB.Collection(database.CollVouchReports)

		var report models.VouchReport
		if err := reports.FindOne(sc, bson.M{"_id": reportID}).Decode(&report); err != nil {
			if err == mongo.ErrNoDocuments {
				return nil, ErrNotFound
			}
			return nil, err
		}
		if report.Status != models.VouchReportPending {
			return nil, ErrAlreadyDone
		}

		if resolution == models.VouchReportResolvedDeleted {
			var vouch models.Vouch
			err := database.DB.Collection(database.CollVouches).FindOne(sc, bson.M{"_id": report.VouchID}).Decode(&vouch)
			if err == mongo.ErrNoDocuments {
				return nil, ErrVouchMissing
			}
			if err != nil {
				return nil, err
			}
			if err := deleteVouchAndDecrement(sc, &vouch); err != nil {
				return nil, err
			}
		}

		now := time.Now()
		_, err := reports.UpdateOne(sc, bson.M{"_id": reportID}, bson.M{
			"$set": bson.M{"status": resolution, "resolvedAt": now, "resolvedBy": adminID},
		})
		return nil, err
	})
	return err
}

// ForceResolveVouchReport is the cleanup path for reports whose vouch is
// missing or inconsistent: it still deletes the vouch when present, but a
// missing vouch is not an error.
func ForceResolveVouchReport(ctx context.Context, adminID, reportID primitive.ObjectID) error {
	session, err := database.Client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		reports := database.DB.Collection(database.CollVouchReports)

		var report models.VouchReport
		if err := reports.FindOne(sc, bson.M{"_id": reportID}).Decode(&report); err != nil {
			if err == mongo.ErrNoDocuments {
				return nil, ErrNotFound
			}
			return nil, err
		}

		var vouch models.Vouch
		err := database.DB.Collection(database.CollVouches).FindOne(sc, bson.M{"_id": report.VouchID}).Decode(&vouch)
		if err == nil {
			if err := deleteVouchAndDecrement(sc, &vouch); err != nil {
				return nil, err
			}
		} else if err != mongo.ErrNoDocuments {
			return nil, err
		}

		now := time.Now()
		_, err = reports.UpdateOne(sc, bson.M{"_id": reportID}, bson.M{
			"$set": bson.M{"status": models.VouchReportResolvedDeleted, "resolvedAt": now, "resolvedBy": adminID},
		})
		return nil, err
	})
	return err
}
