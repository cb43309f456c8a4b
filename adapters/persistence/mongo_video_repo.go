package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/khoahotran/vidshare/internal/domain/video"
	"github.com/khoahotran/vidshare/pkg/apperror"
)

// videoDocument is the stored shape; field names match the public record.
type videoDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	VideoURL    string             `bson:"videoUrl"`
	UserID      string             `bson:"userId"`
	FileName    string             `bson:"fileName"`
	FileSize    int64              `bson:"fileSize"`
	FileType    string             `bson:"fileType"`
	Views       int64              `bson:"views"`
	Likes       int64              `bson:"likes"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func toVideoDocument(v *video.Video) videoDocument {
	return videoDocument{
		Title:       v.Title,
		Description: v.Description,
		VideoURL:    v.VideoURL,
		UserID:      v.UserID,
		FileName:    v.FileName,
		FileSize:    v.FileSize,
		FileType:    v.FileType,
		Views:       v.Views,
		Likes:       v.Likes,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
}

func (d videoDocument) toDomain() *video.Video {
	return &video.Video{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		VideoURL:    d.VideoURL,
		UserID:      d.UserID,
		FileName:    d.FileName,
		FileSize:    d.FileSize,
		FileType:    d.FileType,
		Views:       d.Views,
		Likes:       d.Likes,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

type mongoVideoRepo struct {
	coll *mongo.Collection
}

func NewMongoVideoRepo(db *mongo.Database) video.Repository {
	return &mongoVideoRepo{coll: db.Collection(videosCollection)}
}

// EnsureVideoIndexes backs the newest-first listing and per-owner lookups.
func EnsureVideoIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(videosCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "userId", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create video indexes: %w", err)
	}
	return nil
}

func (r *mongoVideoRepo) Insert(ctx context.Context, v *video.Video) (string, error) {
	doc := toVideoDocument(v)
	doc.ID = primitive.NewObjectID()

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return "", apperror.NewStoreError("insert video", err)
	}
	return doc.ID.Hex(), nil
}

func (r *mongoVideoRepo) FindByID(ctx context.Context, id string) (*video.Video, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperror.NewNotFound("video", id)
	}

	var doc videoDocument
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NewNotFound("video", id)
		}
		return nil, apperror.NewStoreError("find video", err)
	}
	return doc.toDomain(), nil
}

func (r *mongoVideoRepo) DeleteByID(ctx context.Context, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, apperror.NewStoreError("delete video", err)
	}
	return res.DeletedCount == 1, nil
}

func (r *mongoVideoRepo) ListAll(ctx context.Context) ([]*video.Video, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, apperror.NewStoreError("list videos", err)
	}
	defer cur.Close(ctx)

	videos := make([]*video.Video, 0)
	for cur.Next(ctx) {
		var doc videoDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, apperror.NewStoreError("decode video", err)
		}
		videos = append(videos, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, apperror.NewStoreError("iterate videos", err)
	}
	return videos, nil
}

func (r *mongoVideoRepo) IncrementViews(ctx context.Context, id string) (*video.Video, error) {
	return r.increment(ctx, id, "views")
}

func (r *mongoVideoRepo) IncrementLikes(ctx context.Context, id string) (*video.Video, error) {
	return r.increment(ctx, id, "likes")
}

func (r *mongoVideoRepo) increment(ctx context.Context, id, field string) (*video.Video, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperror.NewNotFound("video", id)
	}

	update := bson.M{
		"$inc": bson.M{field: 1},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc videoDocument
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NewNotFound("video", id)
		}
		return nil, apperror.NewStoreError("increment "+field, err)
	}
	return doc.toDomain(), nil
}
