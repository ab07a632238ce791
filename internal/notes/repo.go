package notes

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"thinkvault/internal/board"
)

var (
	ErrNoteNotFound = errors.New("note not found")
)

const maxLimit = 500

// boardOrder is the order every listing is returned in: columns in board
// order, then the stored position, ties going to the newest note.
var boardOrder = bson.D{
	{Key: "column", Value: 1},
	{Key: "position", Value: 1},
	{Key: "created_at", Value: -1},
}

type Repo struct {
	coll *mongo.Collection
}

func NewRepo(db *mongo.Database) *Repo {
	return &Repo{coll: db.Collection("notes")}
}

// EnsureIndexes creates necessary indexes for the notes collection
func (r *Repo) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "position", Value: 1},
			},
		},
		{
			Keys: bson.D{{Key: "created_at", Value: -1}},
		},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("create indexes: %w", err)
	}
	return nil
}

// Insert creates a new note
func (r *Repo) Insert(ctx context.Context, n *Note) error {
	n.ID = primitive.NewObjectID()
	n.CreatedAt = time.Now().UTC()
	n.UpdatedAt = n.CreatedAt

	_, err := r.coll.InsertOne(ctx, n)
	if err != nil {
		return fmt.Errorf("insert note: %w", err)
	}
	return nil
}

// FindByID retrieves a note by its ID
func (r *Repo) FindByID(ctx context.Context, id primitive.ObjectID) (*Note, error) {
	var note Note
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&note)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNoteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find note %s: %w", id.Hex(), err)
	}
	return &note, nil
}

// List retrieves notes in board order, optionally for one status.
func (r *Repo) List(ctx context.Context, q ListQuery) ([]*Note, error) {
	filter := bson.M{}
	if q.Status != "" {
		filter["status"] = q.Status
	}

	notes, err := r.aggregate(ctx, boardPipeline(filter, q.Limit, q.Offset))
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

// Search matches the query against title and content, ignoring case.
func (r *Repo) Search(ctx context.Context, q SearchQuery) ([]*Note, error) {
	filter := bson.M{}

	if q.Query != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(q.Query), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"content": pattern},
		}
	}
	if q.Status != "" {
		filter["status"] = q.Status
	}

	notes, err := r.aggregate(ctx, boardPipeline(filter, q.Limit, q.Offset))
	if err != nil {
		return nil, fmt.Errorf("search notes: %w", err)
	}
	return notes, nil
}

// Update sets the given fields and returns the stored note.
func (r *Repo) Update(ctx context.Context, id primitive.ObjectID, in UpdateNoteInput) (*Note, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if in.Title != nil {
		set["title"] = *in.Title
	}
	if in.Content != nil {
		set["content"] = *in.Content
	}
	if in.Status != nil {
		set["status"] = *in.Status
	}
	if in.Position != nil {
		set["position"] = *in.Position
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var note Note
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&note)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNoteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update note %s: %w", id.Hex(), err)
	}
	return &note, nil
}

// Reorder writes status and position for every placement in one bulk write.
// Placements for notes that no longer exist are skipped.
func (r *Repo) Reorder(ctx context.Context, placements []Placement) error {
	if len(placements) == 0 {
		return nil
	}

	now := time.Now().UTC()
	models := make([]mongo.WriteModel, 0, len(placements))
	for _, p := range placements {
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": p.ID}).
			SetUpdate(bson.M{"$set": bson.M{
				"status":     p.Status,
				"position":   p.Position,
				"updated_at": now,
			}}))
	}

	_, err := r.coll.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return fmt.Errorf("reorder notes: %w", err)
	}
	return nil
}

// Delete removes a note by ID
func (r *Repo) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNoteNotFound
	}
	return nil
}

// Count returns the number of notes, optionally for one status.
func (r *Repo) Count(ctx context.Context, status board.Status) (int64, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	count, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count notes: %w", err)
	}
	return count, nil
}

// boardPipeline matches filter and sorts the result in board order. The
// column rank only exists inside the pipeline.
func boardPipeline(filter bson.M, limit, offset int) mongo.Pipeline {
	columns := bson.A{}
	for _, st := range board.Statuses {
		columns = append(columns, st)
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$addFields", Value: bson.M{"column": bson.M{"$indexOfArray": bson.A{columns, "$status"}}}}},
		{{Key: "$sort", Value: boardOrder}},
	}
	if offset > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$skip", Value: int64(offset)}})
	}
	if limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: int64(min(limit, maxLimit))}})
	}
	return append(pipeline, bson.D{{Key: "$project", Value: bson.M{"column": 0}}})
}

func (r *Repo) aggregate(ctx context.Context, pipeline mongo.Pipeline) ([]*Note, error) {
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	notes := []*Note{}
	if err := cursor.All(ctx, &notes); err != nil {
		return nil, fmt.Errorf("decode notes: %w", err)
	}
	return notes, nil
}
