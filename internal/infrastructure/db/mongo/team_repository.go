package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wastemap/platform-api/internal/core/domain"
)

const collectionTeams = "teams"

type TeamRepository struct {
	col *mongo.Collection
}

func NewTeamRepository(db *mongo.Database) *TeamRepository {
	return &TeamRepository{col: db.Collection(collectionTeams)}
}

type teamDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	MemberIDs []string           `bson:"member_ids,omitempty"`
	LeaderID  string             `bson:"leader_id,omitempty"`
	Status    string             `bson:"status"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func toTeamDoc(t *domain.Team) teamDoc {
	return teamDoc{
		Name:      t.Name,
		MemberIDs: t.MemberIDs,
		LeaderID:  t.LeaderID,
		Status:    string(t.Status),
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func (d teamDoc) toTeam() *domain.Team {
	return &domain.Team{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		MemberIDs: d.MemberIDs,
		LeaderID:  d.LeaderID,
		Status:    domain.TeamStatus(d.Status),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func (r *TeamRepository) FindByID(ctx context.Context, id string) (*domain.Team, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrTeamNotFound
	}

	var d teamDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTeamNotFound
		}
		return nil, fmt.Errorf("find team: %w", err)
	}
	return d.toTeam(), nil
}

func (r *TeamRepository) Create(ctx context.Context, team *domain.Team) (*domain.Team, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toTeamDoc(team)
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert team: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toTeam(), nil
}

func (r *TeamRepository) Update(ctx context.Context, team *domain.Team) (*domain.Team, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(team.ID)
	if err != nil {
		return nil, domain.ErrTeamNotFound
	}

	doc := toTeamDoc(team)
	doc.UpdatedAt = time.Now().UTC()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		return nil, fmt.Errorf("update team: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrTeamNotFound
	}

	doc.ID = oid
	return doc.toTeam(), nil
}

func (r *TeamRepository) List(ctx context.Context) ([]*domain.Team, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	defer cur.Close(ctx)

	var teams []*domain.Team
	for cur.Next(ctx) {
		var d teamDoc
		if err := cur.Decode(&d); err != nil {
			return nil, fmt.Errorf("decode team: %w", err)
		}
		teams = append(teams, d.toTeam())
	}
	return teams, cur.Err()
}

func (r *TeamRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.col.CountDocuments(ctx, bson.M{})
}

func (r *TeamRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
