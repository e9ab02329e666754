package store

import (
	"context"
	"errors"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/workhub-app/workhub-api/models"
)

// storeSuite runs the same behavioural checks against every Store backend.
// Backends embed it and provide newStore and reset.
type storeSuite struct {
	suite.Suite
	ctx   context.Context
	store Store
	reset func()
}

func (s *storeSuite) SetupTest() {
	s.ctx = context.Background()
	if s.reset != nil {
		s.reset()
	}
}

func statusPtr(st models.OrderStatus) *models.OrderStatus { return &st }
func intPtr(i int) *int                                   { return &i }
func strPtr(v string) *string                             { return &v }
func boolPtr(b bool) *bool                                { return &b }

func (s *storeSuite) newOrder(userID, workerID, date string) *models.Order {
	return &models.Order{
		UserID:      userID,
		WorkerID:    workerID,
		WorkerName:  "Ravi",
		Profession:  "Plumber",
		Description: "Fix the kitchen tap",
		Address:     models.Address{Full: "12 Hill Road"},
		Date:        date,
		Time:        "10:30",
		Status:      models.StatusPending,
	}
}

func (s *storeSuite) TestCreateAndGetOrder() {
	order := s.newOrder("user-1", "worker-1", "2030-01-02")

	id, err := s.store.CreateOrder(s.ctx, order)
	s.Require().NoError(err)
	s.NotEmpty(id)
	s.Equal(id, order.ID)

	got, err := s.store.GetOrder(s.ctx, id)
	s.Require().NoError(err)
	s.Equal("user-1", got.UserID)
	s.Equal("worker-1", got.WorkerID)
	s.Equal("12 Hill Road", got.Address.Full)
	s.Equal(models.StatusPending, got.Status)
	s.False(got.Reviewed)
	s.Nil(got.Rating)
	s.Nil(got.Review)
	s.False(got.CreatedAt.IsZero())
}

func (s *storeSuite) TestCreateOrder_AssignsDistinctIDs() {
	first, err := s.store.CreateOrder(s.ctx, s.newOrder("user-1", "worker-1", "2030-01-02"))
	s.Require().NoError(err)
	second, err := s.store.CreateOrder(s.ctx, s.newOrder("user-1", "worker-1", "2030-01-02"))
	s.Require().NoError(err)

	s.NotEqual(first, second)

	orders, err := s.store.QueryOrders(s.ctx, OrderFieldUser, "user-1")
	s.Require().NoError(err)
	s.Len(orders, 2)
}

func (s *storeSuite) TestGetOrder_NotFound() {
	_, err := s.store.GetOrder(s.ctx, "missing")
	s.True(errors.Is(err, ErrNotFound), "got %v", err)
}

func (s *storeSuite) TestGetOrder_AppliesReadDefaults() {
	order := s.newOrder("user-1", "worker-1", "")
	order.WorkerName = ""
	order.Profession = ""
	order.Time = ""

	id, err := s.store.CreateOrder(s.ctx, order)
	s.Require().NoError(err)

	got, err := s.store.GetOrder(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(models.UnknownWorkerName, got.WorkerName)
	s.Equal(models.UnknownProfession, got.Profession)
	s.Equal(models.NotSet, got.Date)
	s.Equal(models.NotSet, got.Time)
}

func (s *storeSuite) TestQueryOrders_ByField() {
	_, err := s.store.CreateOrder(s.ctx, s.newOrder("user-1", "worker-1", "2030-01-01"))
	s.Require().NoError(err)
	_, err = s.store.CreateOrder(s.ctx, s.newOrder("user-2", "worker-1", "2030-01-02"))
	s.Require().NoError(err)
	_, err = s.store.CreateOrder(s.ctx, s.newOrder("user-1", "worker-2", "2030-01-03"))
	s.Require().NoError(err)

	byWorker, err := s.store.QueryOrders(s.ctx, OrderFieldWorker, "worker-1")
	s.Require().NoError(err)
	s.Len(byWorker, 2)
	for _, o := range byWorker {
		s.Equal("worker-1", o.WorkerID)
	}

	byUser, err := s.store.QueryOrders(s.ctx, OrderFieldUser, "user-1")
	s.Require().NoError(err)
	s.Len(byUser, 2)

	none, err := s.store.QueryOrders(s.ctx, OrderFieldUser, "nobody")
	s.Require().NoError(err)
	s.Empty(none)

	_, err = s.store.QueryOrders(s.ctx, OrderField("status"), "pending")
	s.Error(err)
}

func (s *storeSuite) TestUpdateOrder_CompareAndSetStatus() {
	id, err := s.store.CreateOrder(s.ctx, s.newOrder("user-1", "worker-1", "2030-01-02"))
	s.Require().NoError(err)

	err = s.store.UpdateOrder(s.ctx, id, OrderPatch{
		Status:         statusPtr(models.StatusAccepted),
		ExpectedStatus: statusPtr(models.StatusPending),
	})
	s.Require().NoError(err)

	// the guard no longer matches
	err = s.store.UpdateOrder(s.ctx, id, OrderPatch{
		Status:         statusPtr(models.StatusDeclined),
		ExpectedStatus: statusPtr(models.StatusPending),
	})
	s.True(errors.Is(err, ErrConflict), "got %v", err)

	got, err := s.store.GetOrder(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(models.StatusAccepted, got.Status)
}

func (s *storeSuite) TestUpdateOrder_RatingOnlyOnce() {
	order := s.newOrder("user-1", "worker-1", "2030-01-02")
	order.Status = models.StatusCompleted
	id, err := s.store.CreateOrder(s.ctx, order)
	s.Require().NoError(err)

	patch := OrderPatch{
		Rating:         intPtr(4),
		Review:         strPtr("Quick and tidy"),
		ExpectedStatus: statusPtr(models.StatusCompleted),
		RequireUnrated: true,
	}
	s.Require().NoError(s.store.UpdateOrder(s.ctx, id, patch))

	patch.Rating = intPtr(1)
	err = s.store.UpdateOrder(s.ctx, id, patch)
	s.True(errors.Is(err, ErrConflict), "got %v", err)

	got, err := s.store.GetOrder(s.ctx, id)
	s.Require().NoError(err)
	s.Require().NotNil(got.Rating)
	s.Equal(4, *got.Rating)
	s.Require().NotNil(got.Review)
	s.Equal("Quick and tidy", *got.Review)
	s.False(got.Reviewed)
}

func (s *storeSuite) TestUpdateOrder_Reviewed() {
	id, err := s.store.CreateOrder(s.ctx, s.newOrder("user-1", "worker-1", "2030-01-02"))
	s.Require().NoError(err)

	s.Require().NoError(s.store.UpdateOrder(s.ctx, id, OrderPatch{Reviewed: boolPtr(true)}))

	got, err := s.store.GetOrder(s.ctx, id)
	s.Require().NoError(err)
	s.True(got.Reviewed)
}

func (s *storeSuite) TestUpdateOrder_NotFound() {
	err := s.store.UpdateOrder(s.ctx, "missing", OrderPatch{Status: statusPtr(models.StatusAccepted)})
	s.True(errors.Is(err, ErrNotFound), "got %v", err)

	err = s.store.UpdateOrder(s.ctx, "missing", OrderPatch{})
	s.True(errors.Is(err, ErrNotFound), "got %v", err)
}

func (s *storeSuite) TestUsers() {
	user := &models.User{ID: "auth0|u1", Name: "Asha", Email: "asha@example.com", MobileNo: "+15550100"}
	s.Require().NoError(s.store.CreateUser(s.ctx, user))

	err := s.store.CreateUser(s.ctx, &models.User{ID: "auth0|u1", Name: "Again", Email: "other@example.com"})
	s.True(errors.Is(err, ErrDuplicate), "got %v", err)

	s.Require().NoError(s.store.UpdateUser(s.ctx, "auth0|u1", UserUpdate{Address: strPtr("4 Lake View")}))

	got, err := s.store.GetUser(s.ctx, "auth0|u1")
	s.Require().NoError(err)
	s.Equal("Asha", got.Name)
	s.Equal("+15550100", got.MobileNo)
	s.Equal("4 Lake View", got.Address)

	_, err = s.store.GetUser(s.ctx, "auth0|nobody")
	s.True(errors.Is(err, ErrNotFound), "got %v", err)

	err = s.store.UpdateUser(s.ctx, "auth0|nobody", UserUpdate{Name: strPtr("x")})
	s.True(errors.Is(err, ErrNotFound), "got %v", err)
}

func (s *storeSuite) TestWorkers() {
	workers := []*models.Worker{
		{ID: "auth0|w1", Name: "Ravi", Email: "ravi@example.com", Profession: "Plumber", Rating: 3.5, Status: models.WorkerAvailable},
		{ID: "auth0|w2", Name: "Meena", Email: "meena@example.com", Profession: "Electrician", Rating: 4.8, Status: models.WorkerActive},
		{ID: "auth0|w3", Name: "Kiran", Email: "kiran@example.com", Profession: "Carpenter", Rating: 4.1, Status: models.WorkerAvailable},
	}
	for _, w := range workers {
		s.Require().NoError(s.store.CreateWorker(s.ctx, w))
	}

	list, err := s.store.ListWorkers(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(list, 3)
	s.Equal("Meena", list[0].Name)
	s.Equal("Kiran", list[1].Name)
	s.Equal("Ravi", list[2].Name)

	status := models.WorkerOther
	s.Require().NoError(s.store.UpdateWorker(s.ctx, "auth0|w1", WorkerUpdate{Experience: strPtr("6 years"), Status: &status}))

	got, err := s.store.GetWorker(s.ctx, "auth0|w1")
	s.Require().NoError(err)
	s.Equal("6 years", got.Experience)
	s.Equal(models.WorkerOther, got.Status)
	s.Equal("Plumber", got.Profession)

	_, err = s.store.GetWorker(s.ctx, "auth0|nobody")
	s.True(errors.Is(err, ErrNotFound), "got %v", err)
}

func (s *storeSuite) TestPostsNewestFirst() {
	base := time.Now().UTC().Add(-time.Hour).Truncate(time.Millisecond)
	for i, caption := range []string{"first", "second", "third"} {
		_, err := s.store.CreatePost(s.ctx, &models.Post{
			WorkerID:  "auth0|w1",
			ImageKey:  "post_images/" + caption + ".png",
			Caption:   caption,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		s.Require().NoError(err)
	}
	_, err := s.store.CreatePost(s.ctx, &models.Post{WorkerID: "auth0|w2", ImageKey: "k", Caption: "other"})
	s.Require().NoError(err)

	posts, err := s.store.ListPosts(s.ctx, "auth0|w1")
	s.Require().NoError(err)
	s.Require().Len(posts, 3)
	s.Equal("third", posts[0].Caption)
	s.Equal("first", posts[2].Caption)

	reviews, err := s.store.ListReviews(s.ctx, "auth0|w1")
	s.Require().NoError(err)
	s.Empty(reviews)
}
