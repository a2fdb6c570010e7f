package store

import (
	"context"
	"errors"

	"earning-bot/apperrors"
	"earning-bot/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo is the MongoDB-backed Store.
type Mongo struct {
	users       *mongo.Collection
	withdrawals *mongo.Collection
}

func NewMongo(users, withdrawals *mongo.Collection) *Mongo {
	return &Mongo{users: users, withdrawals: withdrawals}
}

// EnsureIndexes creates the withdrawal lookup indexes. Users are keyed by _id.
func (s *Mongo) EnsureIndexes(ctx context.Context) error {
	_, err := s.withdrawals.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
		{Keys: bson.D{{Key: "date", Value: -1}}},
	})
	if err != nil {
		return apperrors.Persistence("ensure indexes", err)
	}
	return nil
}

func (s *Mongo) GetUser(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	err := s.users.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, apperrors.Persistence("get user", err)
	}
	return &u, nil
}

func (s *Mongo) CreateUser(ctx context.Context, u *models.User) error {
	_, err := s.users.InsertOne(ctx, u)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrUserExists
		}
		return apperrors.Persistence("create user", err)
	}
	return nil
}

func (s *Mongo) CreditReferral(ctx context.Context, referrerID, refereeID int64, amount models.Money) (bool, error) {
	res, err := s.users.UpdateOne(ctx,
		bson.M{"_id": referrerID, "referred": bson.M{"$ne": refereeID}},
		bson.M{
			"$inc":  bson.M{"balance": amount, "referrals": 1},
			"$push": bson.M{"referred": refereeID},
		},
	)
	if err != nil {
		return false, apperrors.Persistence("credit referral", err)
	}
	if res.MatchedCount == 1 {
		return true, nil
	}
	// Nothing matched: either the referee was already credited or the
	// referrer does not exist.
	if err := s.exists(ctx, referrerID); err != nil {
		return false, err
	}
	return false, nil
}

func (s *Mongo) MarkReferralSettled(ctx context.Context, userID int64) error {
	res, err := s.users.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"referral_settled": true}},
	)
	if err != nil {
		return apperrors.Persistence("settle referral", err)
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *Mongo) ClaimDaily(ctx context.Context, userID int64, today models.Date, amount models.Money) (bool, error) {
	res, err := s.users.UpdateOne(ctx,
		bson.M{"_id": userID, "last_checkin": bson.M{"$ne": today}},
		bson.M{
			"$set": bson.M{"last_checkin": today},
			"$inc": bson.M{"balance": amount},
		},
	)
	if err != nil {
		return false, apperrors.Persistence("claim daily", err)
	}
	if res.MatchedCount == 1 {
		return true, nil
	}
	if err := s.exists(ctx, userID); err != nil {
		return false, err
	}
	return false, nil
}

func (s *Mongo) DebitAll(ctx context.Context, userID int64) (models.Money, error) {
	var before models.User
	err := s.users.FindOneAndUpdate(ctx,
		bson.M{"_id": userID, "balance": bson.M{"$gt": 0}},
		bson.M{"$set": bson.M{"balance": models.Money(0)}},
		options.FindOneAndUpdate().
			SetReturnDocument(options.Before).
			SetProjection(bson.M{"balance": 1}),
	).Decode(&before)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Zero balance or no such user.
			return 0, s.exists(ctx, userID)
		}
		return 0, apperrors.Persistence("debit all", err)
	}
	return before.Balance, nil
}

func (s *Mongo) Credit(ctx context.Context, userID int64, amount models.Money) error {
	res, err := s.users.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$inc": bson.M{"balance": amount}},
	)
	if err != nil {
		return apperrors.Persistence("credit", err)
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *Mongo) InsertWithdrawal(ctx context.Context, w *models.WithdrawalRequest) error {
	res, err := s.withdrawals.InsertOne(ctx, w)
	if err != nil {
		return apperrors.Persistence("insert withdrawal", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		w.ID = id
	}
	return nil
}

func (s *Mongo) exists(ctx context.Context, id int64) error {
	n, err := s.users.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return apperrors.Persistence("lookup user", err)
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}
