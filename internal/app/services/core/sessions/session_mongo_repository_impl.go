package sessions

import (
	"context"
	"sync"

	"paybridge-service/internal/app/contracts"
	"paybridge-service/internal/app/models"
	"paybridge-service/internal/pkg/constvars"
	"paybridge-service/internal/pkg/exceptions"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type sessionMongoRepository struct {
	DB *mongo.Database
}

var (
	sessionMongoRepositoryInstance contracts.SessionRepository
	onceSessionMongoRepository     sync.Once
)

func NewSessionMongoRepository(db *mongo.Database) contracts.SessionRepository {
	onceSessionMongoRepository.Do(func() {
		sessionMongoRepositoryInstance = &sessionMongoRepository{DB: db}
	})
	return sessionMongoRepositoryInstance
}

func (r *sessionMongoRepository) collection() *mongo.Collection {
	return r.DB.Collection(constvars.MongoCollectionPaymentSessions)
}

func (r *sessionMongoRepository) FindByTxnID(ctx context.Context, txnid string) (*models.PaymentSession, error) {
	var session models.PaymentSession
	err := r.collection().FindOne(ctx, bson.M{"txnid": txnid}).Decode(&session)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &session, nil
}

func (r *sessionMongoRepository) FindByCorrelationID(ctx context.Context, correlationID string) (*models.PaymentSession, error) {
	// Correlation ids arrive as udf1 when the hosting platform set one,
	// otherwise they are the txnid itself.
	var session models.PaymentSession
	filter := bson.M{"$or": []bson.M{
		{"udf1": correlationID},
		{"txnid": correlationID},
	}}
	err := r.collection().FindOne(ctx, filter).Decode(&session)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &session, nil
}

func (r *sessionMongoRepository) CreateSession(ctx context.Context, session *models.PaymentSession) error {
	_, err := r.collection().InsertOne(ctx, session)
	if err != nil {
		return exceptions.ErrMongoDBInsertDocument(err)
	}
	return nil
}

func (r *sessionMongoRepository) UpdateSession(ctx context.Context, session *models.PaymentSession) error {
	filter := bson.M{"txnid": session.TxnID}
	update := bson.M{"$set": session}
	_, err := r.collection().UpdateOne(ctx, filter, update)
	if err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	return nil
}
