package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/campusnet-app/backend/internal/models"
	"github.com/campusnet-app/backend/pkg/apperrors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PostFilter narrows post listings. Zero values mean "no filter".
type PostFilter struct {
	PublicOnly bool
	FacultyID  *uint
	GroupID    *uint
	TextSearch string
}

// PostRepository defines the interface for post data operations. Counter
// mutations go through atomic update operators on the document so that
// concurrent writers never lose updates; decrements are floored at zero.
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	ListPosts(ctx context.Context, filter PostFilter, skip, limit int64) ([]models.Post, int64, error)
	ListByAuthor(ctx context.Context, authorID uint, skip, limit int64) ([]models.Post, int64, error)
	ListByAuthors(ctx context.Context, authorIDs []uint, skip, limit int64) ([]models.Post, int64, error)
	ListByIDs(ctx context.Context, ids []string) ([]models.Post, error)
	DeletePost(ctx context.Context, id string) error
	IncLikesCount(ctx context.Context, postID string) error
	DecLikesCount(ctx context.Context, postID string) error
	IncSavesCount(ctx context.Context, postID string) error
	DecSavesCount(ctx context.Context, postID string) error
	IncCommentsCount(ctx context.Context, postID string) error
	DecCommentsCount(ctx context.Context, postID string) error
	IncSharesCount(ctx context.Context, postID string) error
	CountPosts(ctx context.Context) (int64, error)
}

// MongoPostRepository implements PostRepository for MongoDB
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection("posts")}
}

// CreatePost creates a new post in MongoDB
func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	_, err := r.collection.InsertOne(ctx, post)
	return err
}

// GetPostByID retrieves a post by ID from MongoDB
func (r *MongoPostRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid post ID %q: %w", id, apperrors.ErrValidation)
	}

	var post models.Post
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

func (r *MongoPostRepository) find(ctx context.Context, filter bson.M, skip, limit int64) ([]models.Post, int64, error) {
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	findOptions := options.Find().SetSkip(skip).SetLimit(limit).
		SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// ListPosts retrieves posts matching the filter, newest first
func (r *MongoPostRepository) ListPosts(ctx context.Context, filter PostFilter, skip, limit int64) ([]models.Post, int64, error) {
	query := bson.M{}
	if filter.PublicOnly {
		query["is_public"] = true
	}
	if filter.FacultyID != nil {
		query["faculty_id"] = *filter.FacultyID
	}
	if filter.GroupID != nil {
		query["group_id"] = *filter.GroupID
	}
	if filter.TextSearch != "" {
		query["$or"] = bson.A{
			bson.M{"content": bson.M{"$regex": filter.TextSearch, "$options": "i"}},
			bson.M{"hashtags": bson.M{"$regex": filter.TextSearch, "$options": "i"}},
		}
	}
	return r.find(ctx, query, skip, limit)
}

// ListByAuthor retrieves posts by a specific author, newest first
func (r *MongoPostRepository) ListByAuthor(ctx context.Context, authorID uint, skip, limit int64) ([]models.Post, int64, error) {
	return r.find(ctx, bson.M{"author_id": authorID}, skip, limit)
}

// ListByAuthors retrieves posts authored by any of the given users (feed query)
func (r *MongoPostRepository) ListByAuthors(ctx context.Context, authorIDs []uint, skip, limit int64) ([]models.Post, int64, error) {
	if len(authorIDs) == 0 {
		return nil, 0, nil
	}
	return r.find(ctx, bson.M{"author_id": bson.M{"$in": authorIDs}}, skip, limit)
}

// ListByIDs retrieves the given posts, newest first (saved-posts listing)
func (r *MongoPostRepository) ListByIDs(ctx context.Context, ids []string) ([]models.Post, error) {
	objIDs := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		objID, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		objIDs = append(objIDs, objID)
	}
	if len(objIDs) == 0 {
		return nil, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": objIDs}},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// DeletePost deletes a post by ID from MongoDB
func (r *MongoPostRepository) DeletePost(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid post ID %q: %w", id, apperrors.ErrValidation)
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// adjustCounter applies an atomic delta to a cached counter field, floored
// at zero via an update pipeline so the floor and the add are one operation.
func (r *MongoPostRepository) adjustCounter(ctx context.Context, postID, field string, delta int) error {
	objID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return fmt.Errorf("invalid post ID %q: %w", postID, apperrors.ErrValidation)
	}
	pipeline := bson.A{bson.M{"$set": bson.M{
		field: bson.M{"$max": bson.A{bson.M{"$add": bson.A{"$" + field, delta}}, 0}},
	}}}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": objID}, pipeline)
	return err
}

func (r *MongoPostRepository) IncLikesCount(ctx context.Context, postID string) error {
	return r.adjustCounter(ctx, postID, "likes_count", 1)
}

func (r *MongoPostRepository) DecLikesCount(ctx context.Context, postID string) error {
	return r.adjustCounter(ctx, postID, "likes_count", -1)
}

func (r *MongoPostRepository) IncSavesCount(ctx context.Context, postID string) error {
	return r.adjustCounter(ctx, postID, "saves_count", 1)
}

func (r *MongoPostRepository) DecSavesCount(ctx context.Context, postID string) error {
	return r.adjustCounter(ctx, postID, "saves_count", -1)
}

func (r *MongoPostRepository) IncCommentsCount(ctx context.Context, postID string) error {
	return r.adjustCounter(ctx, postID, "comments_count", 1)
}

func (r *MongoPostRepository) DecCommentsCount(ctx context.Context, postID string) error {
	return r.adjustCounter(ctx, postID, "comments_count", -1)
}

func (r *MongoPostRepository) IncSharesCount(ctx context.Context, postID string) error {
	return r.adjustCounter(ctx, postID, "shares_count", 1)
}

// CountPosts returns the total number of posts
func (r *MongoPostRepository) CountPosts(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}
