package repository

import (
	"context"
	"testing"
	"time"

	"school-service/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func userDoc(id primitive.ObjectID, email, schoolID string) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "first_name", Value: "A"},
		{Key: "last_name", Value: "B"},
		{Key: "email", Value: email},
		{Key: "mobile", Value: "1"},
		{Key: "password", Value: "$2a$05$hash"},
		{Key: "created", Value: primitive.NewDateTimeFromTime(time.Now())},
		{Key: "updated", Value: nil},
		{Key: "schoolId", Value: schoolID},
	}
}

func TestMongoUserRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("create", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		err := repo.Create(ctx, &model.User{ID: primitive.NewObjectID(), Email: "a@b.com"})
		assert.NoError(mt, err)
	})

	mt.Run("create duplicate email", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: tif.users index: email_unique",
		}))

		err := repo.Create(ctx, &model.User{ID: primitive.NewObjectID(), Email: "a@b.com"})
		assert.ErrorIs(mt, err, ErrDuplicate)
	})

	mt.Run("find by email", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		id := primitive.NewObjectID()
		ns := mt.DB.Name() + "." + UsersCollection
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, userDoc(id, "a@b.com", "s1")))

		user, err := repo.FindByEmail(ctx, "a@b.com")
		require.NoError(mt, err)
		assert.Equal(mt, id, user.ID)
		assert.Equal(mt, "a@b.com", user.Email)
		assert.Nil(mt, user.Updated)
		require.NotNil(mt, user.SchoolID)
		assert.Equal(mt, "s1", *user.SchoolID)
	})

	mt.Run("find by email not found", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		ns := mt.DB.Name() + "." + UsersCollection
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := repo.FindByEmail(ctx, "missing@b.com")
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("list by school", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		ns := mt.DB.Name() + "." + UsersCollection
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			userDoc(primitive.NewObjectID(), "a@b.com", "s1"),
			userDoc(primitive.NewObjectID(), "c@d.com", "s1"),
		))

		users, err := repo.ListBySchool(ctx, "s1")
		require.NoError(mt, err)
		assert.Len(mt, users, 2)
	})

	mt.Run("list empty", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		ns := mt.DB.Name() + "." + UsersCollection
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		users, err := repo.List(ctx)
		require.NoError(mt, err)
		assert.NotNil(mt, users)
		assert.Empty(mt, users)
	})

	mt.Run("set school with no match", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		school := "abc"
		matched, err := repo.SetSchool(ctx, "nonexistent-id", &school, time.Now())
		require.NoError(mt, err)
		assert.Zero(mt, matched)
	})

	mt.Run("set school", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		school := "abc"
		matched, err := repo.SetSchool(ctx, primitive.NewObjectID().Hex(), &school, time.Now())
		require.NoError(mt, err)
		assert.Equal(mt, int64(1), matched)
	})

	mt.Run("ensure indexes", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		assert.NoError(mt, repo.EnsureIndexes(ctx))
	})
}

func TestMongoSchoolRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("create", func(mt *mtest.T) {
		repo := NewMongoSchoolRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		err := repo.Create(ctx, &model.School{ID: primitive.NewObjectID(), PublicID: "SCH-AB12"})
		assert.NoError(mt, err)
	})

	mt.Run("create reused id", func(mt *mtest.T) {
		repo := NewMongoSchoolRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: tif.schools index: _id_",
		}))

		err := repo.Create(ctx, &model.School{ID: primitive.NewObjectID()})
		assert.ErrorIs(mt, err, ErrDuplicate)
	})

	mt.Run("list", func(mt *mtest.T) {
		repo := NewMongoSchoolRepository(mt.DB)
		ns := mt.DB.Name() + "." + SchoolsCollection
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "public_id", Value: "SCH-AB12"},
			{Key: "name", Value: "X"},
			{Key: "city", Value: "Y"},
			{Key: "state", Value: "Z"},
			{Key: "country", Value: "W"},
			{Key: "created", Value: primitive.NewDateTimeFromTime(time.Now())},
			{Key: "updated", Value: nil},
		}))

		schools, err := repo.List(ctx)
		require.NoError(mt, err)
		require.Len(mt, schools, 1)
		assert.Equal(mt, id, schools[0].ID)
		assert.Equal(mt, "SCH-AB12", schools[0].PublicID)
	})

	mt.Run("list failure", func(mt *mtest.T) {
		repo := NewMongoSchoolRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Message: "bad query",
			Name:    "BadValue",
		}))

		_, err := repo.List(ctx)
		assert.Error(mt, err)
	})
}
