package store

import (
	"context"
	"fmt"
	"time"

	"github.com/workhub-app/workhub-api/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names
const (
	ordersCollection  = "orders"
	usersCollection   = "users"
	workersCollection = "workers"
	postsCollection   = "posts"
	reviewsCollection = "reviews"
)

// bson names of the queryable order fields
var mongoOrderFields = map[OrderField]string{
	OrderFieldUser:   "userId",
	OrderFieldWorker: "workerId",
}

// MongoStore implements Store on a MongoDB database
type MongoStore struct {
	orders  *mongo.Collection
	users   *mongo.Collection
	workers *mongo.Collection
	posts   *mongo.Collection
	reviews *mongo.Collection
	now     func() time.Time
}

// NewMongoStore uses the marketplace collections of db
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{
		orders:  db.Collection(ordersCollection),
		users:   db.Collection(usersCollection),
		workers: db.Collection(workersCollection),
		posts:   db.Collection(postsCollection),
		reviews: db.Collection(reviewsCollection),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// EnsureIndexes creates the indexes the queries rely on. It is idempotent.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)
	indexes := []struct {
		col   *mongo.Collection
		model mongo.IndexModel
	}{
		{s.users, mongo.IndexModel{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique}},
		{s.workers, mongo.IndexModel{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique}},
		{s.workers, mongo.IndexModel{Keys: bson.D{{Key: "rating", Value: -1}}}},
		{s.orders, mongo.IndexModel{Keys: bson.D{{Key: "userId", Value: 1}}}},
		{s.orders, mongo.IndexModel{Keys: bson.D{{Key: "workerId", Value: 1}}}},
		{s.posts, mongo.IndexModel{Keys: bson.D{{Key: "workerId", Value: 1}, {Key: "createdAt", Value: -1}}}},
		{s.reviews, mongo.IndexModel{Keys: bson.D{{Key: "workerId", Value: 1}, {Key: "createdAt", Value: -1}}}},
	}

	for _, idx := range indexes {
		if _, err := idx.col.Indexes().CreateOne(ctx, idx.model); err != nil {
			return fmt.Errorf("failed to create index on %s: %w", idx.col.Name(), classifyMongoError(err))
		}
	}
	return nil
}

// CreateOrder implements OrderStore
func (s *MongoStore) CreateOrder(ctx context.Context, o *models.Order) (string, error) {
	if o.ID == "" {
		o.ID = primitive.NewObjectID().Hex()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = s.now()
	}
	if _, err := s.orders.InsertOne(ctx, o); err != nil {
		return "", fmt.Errorf("failed to create order: %w", classifyMongoError(err))
	}
	return o.ID, nil
}

// QueryOrders implements OrderStore
func (s *MongoStore) QueryOrders(ctx context.Context, field OrderField, value string) ([]models.Order, error) {
	name, ok := mongoOrderFields[field]
	if !ok {
		return nil, fmt.Errorf("unsupported order field %q", field)
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := s.orders.Find(ctx, bson.M{name: value}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", classifyMongoError(err))
	}

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", classifyMongoError(err))
	}
	for i := range orders {
		orders[i].ApplyReadDefaults()
	}
	return orders, nil
}

// GetOrder implements OrderStore
func (s *MongoStore) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := s.orders.FindOne(ctx, bson.M{"_id": id}).Decode(&order); err != nil {
		return nil, fmt.Errorf("failed to get order %s: %w", id, classifyMongoError(err))
	}
	order.ApplyReadDefaults()
	return &order, nil
}

// UpdateOrder implements OrderStore
func (s *MongoStore) UpdateOrder(ctx context.Context, id string, patch OrderPatch) error {
	set := bson.M{}
	if patch.Status != nil {
		set["status"] = *patch.Status
	}
	if patch.Rating != nil {
		set["rating"] = *patch.Rating
	}
	if patch.Review != nil {
		set["review"] = *patch.Review
	}
	if patch.Reviewed != nil {
		set["reviewed"] = *patch.Reviewed
	}

	if len(set) == 0 {
		return s.exists(ctx, s.orders, "order", id)
	}

	filter := bson.M{"_id": id}
	if patch.ExpectedStatus != nil {
		filter["status"] = *patch.ExpectedStatus
	}
	if patch.RequireUnrated {
		// matches both null and missing
		filter["rating"] = nil
	}

	res, err := s.orders.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update order %s: %w", id, classifyMongoError(err))
	}
	if res.MatchedCount > 0 {
		return nil
	}

	if err := s.exists(ctx, s.orders, "order", id); err != nil {
		return err
	}
	return fmt.Errorf("order %s: %w", id, ErrConflict)
}

func (s *MongoStore) exists(ctx context.Context, col *mongo.Collection, kind, id string) error {
	n, err := col.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return fmt.Errorf("failed to look up %s %s: %w", kind, id, classifyMongoError(err))
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	return nil
}

// GetUser implements AccountStore
func (s *MongoStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.users.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", id, classifyMongoError(err))
	}
	return &user, nil
}

// CreateUser implements AccountStore
func (s *MongoStore) CreateUser(ctx context.Context, u *models.User) error {
	now := s.now()
	u.CreatedAt, u.UpdatedAt = now, now
	if _, err := s.users.InsertOne(ctx, u); err != nil {
		return fmt.Errorf("failed to create user: %w", classifyMongoError(err))
	}
	return nil
}

// UpdateUser implements AccountStore
func (s *MongoStore) UpdateUser(ctx context.Context, id string, update UserUpdate) error {
	set := bson.M{}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.MobileNo != nil {
		set["mobileNo"] = *update.MobileNo
	}
	if update.Address != nil {
		set["address"] = *update.Address
	}
	if update.ProfileImageKey != nil {
		set["profileImage"] = *update.ProfileImageKey
	}
	return s.updateAccount(ctx, s.users, "user", id, set)
}

// GetWorker implements AccountStore
func (s *MongoStore) GetWorker(ctx context.Context, id string) (*models.Worker, error) {
	var worker models.Worker
	if err := s.workers.FindOne(ctx, bson.M{"_id": id}).Decode(&worker); err != nil {
		return nil, fmt.Errorf("failed to get worker %s: %w", id, classifyMongoError(err))
	}
	worker.ApplyReadDefaults()
	return &worker, nil
}

// CreateWorker implements AccountStore
func (s *MongoStore) CreateWorker(ctx context.Context, w *models.Worker) error {
	now := s.now()
	w.CreatedAt, w.UpdatedAt = now, now
	if w.Status == "" {
		w.Status = models.WorkerAvailable
	}
	if _, err := s.workers.InsertOne(ctx, w); err != nil {
		return fmt.Errorf("failed to create worker: %w", classifyMongoError(err))
	}
	return nil
}

// UpdateWorker implements AccountStore
func (s *MongoStore) UpdateWorker(ctx context.Context, id string, update WorkerUpdate) error {
	set := bson.M{}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.MobileNumber != nil {
		set["mobileNumber"] = *update.MobileNumber
	}
	if update.Profession != nil {
		set["profession"] = *update.Profession
	}
	if update.Experience != nil {
		set["experience"] = *update.Experience
	}
	if update.Status != nil {
		set["status"] = *update.Status
	}
	if update.ProfileImageKey != nil {
		set["profileImage"] = *update.ProfileImageKey
	}
	return s.updateAccount(ctx, s.workers, "worker", id, set)
}

func (s *MongoStore) updateAccount(ctx context.Context, col *mongo.Collection, kind, id string, set bson.M) error {
	if len(set) == 0 {
		return s.exists(ctx, col, kind, id)
	}
	set["updatedAt"] = s.now()

	res, err := col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update %s %s: %w", kind, id, classifyMongoError(err))
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	return nil
}

// ListWorkers implements AccountStore
func (s *MongoStore) ListWorkers(ctx context.Context) ([]models.Worker, error) {
	opts := options.Find().SetSort(bson.D{{Key: "rating", Value: -1}, {Key: "name", Value: 1}})
	cursor, err := s.workers.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list workers: %w", classifyMongoError(err))
	}

	workers := []models.Worker{}
	if err := cursor.All(ctx, &workers); err != nil {
		return nil, fmt.Errorf("failed to decode workers: %w", classifyMongoError(err))
	}
	for i := range workers {
		workers[i].ApplyReadDefaults()
	}
	return workers, nil
}

// CreatePost implements PostStore
func (s *MongoStore) CreatePost(ctx context.Context, p *models.Post) (string, error) {
	if p.ID == "" {
		p.ID = primitive.NewObjectID().Hex()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.now()
	}
	if _, err := s.posts.InsertOne(ctx, p); err != nil {
		return "", fmt.Errorf("failed to create post: %w", classifyMongoError(err))
	}
	return p.ID, nil
}

// ListPosts implements PostStore
func (s *MongoStore) ListPosts(ctx context.Context, workerID string) ([]models.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.posts.Find(ctx, bson.M{"workerId": workerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", classifyMongoError(err))
	}

	posts := []models.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("failed to decode posts: %w", classifyMongoError(err))
	}
	return posts, nil
}

// ListReviews implements PostStore
func (s *MongoStore) ListReviews(ctx context.Context, workerID string) ([]models.Review, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.reviews.Find(ctx, bson.M{"workerId": workerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", classifyMongoError(err))
	}

	reviews := []models.Review{}
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("failed to decode reviews: %w", classifyMongoError(err))
	}
	return reviews, nil
}

var _ Store = (*MongoStore)(nil)
