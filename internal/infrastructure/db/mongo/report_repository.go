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
	"github.com/wastemap/platform-api/internal/core/ports"
)

const collectionReports = "reports"

type ReportRepository struct {
	col *mongo.Collection
}

func NewReportRepository(db *mongo.Database) *ReportRepository {
	return &ReportRepository{col: db.Collection(collectionReports)}
}

type reportDoc struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty"`
	ReporterID      string              `bson:"reporter_id"`
	Description     string              `bson:"description"`
	Location        domain.GeoPoint     `bson:"location"`
	Address         string              `bson:"address,omitempty"`
	Images          []string            `bson:"images,omitempty"`
	Priority        string              `bson:"priority"`
	Status          string              `bson:"status"`
	AssignedTeamID  string              `bson:"assigned_team_id,omitempty"`
	AssignedUserIDs []string            `bson:"assigned_user_ids,omitempty"`
	Notes           []domain.ReportNote `bson:"notes,omitempty"`
	CreatedAt       time.Time           `bson:"created_at"`
	UpdatedAt       time.Time           `bson:"updated_at"`
	CompletedAt     *time.Time          `bson:"completed_at,omitempty"`
}

func toReportDoc(r *domain.Report) reportDoc {
	return reportDoc{
		ReporterID:      r.ReporterID,
		Description:     r.Description,
		Location:        r.Location,
		Address:         r.Address,
		Images:          r.Images,
		Priority:        string(r.Priority),
		Status:          string(r.Status),
		AssignedTeamID:  r.AssignedTeamID,
		AssignedUserIDs: r.AssignedUserIDs,
		Notes:           r.Notes,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
		CompletedAt:     r.CompletedAt,
	}
}

func (d reportDoc) toReport() *domain.Report {
	return &domain.Report{
		ID:              d.ID.Hex(),
		ReporterID:      d.ReporterID,
		Description:     d.Description,
		Location:        d.Location,
		Address:         d.Address,
		Images:          d.Images,
		Priority:        domain.ReportPriority(d.Priority),
		Status:          domain.ReportStatus(d.Status),
		AssignedTeamID:  d.AssignedTeamID,
		AssignedUserIDs: d.AssignedUserIDs,
		Notes:           d.Notes,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
		CompletedAt:     d.CompletedAt,
	}
}

func (r *ReportRepository) Create(ctx context.Context, report *domain.Report) (*domain.Report, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toReportDoc(report)
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert report: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toReport(), nil
}

func (r *ReportRepository) FindByID(ctx context.Context, id string) (*domain.Report, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrReportNotFound
	}

	var d reportDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrReportNotFound
		}
		return nil, fmt.Errorf("find report: %w", err)
	}
	return d.toReport(), nil
}

func (r *ReportRepository) Update(ctx context.Context, report *domain.Report) (*domain.Report, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(report.ID)
	if err != nil {
		return nil, domain.ErrReportNotFound
	}

	doc := toReportDoc(report)
	doc.UpdatedAt = time.Now().UTC()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		return nil, fmt.Errorf("update report: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrReportNotFound
	}

	doc.ID = oid
	return doc.toReport(), nil
}

func buildReportQuery(filter ports.ListReportsFilter) bson.M {
	query := bson.M{}
	if filter.ReporterID != "" {
		query["reporter_id"] = filter.ReporterID
	}
	if filter.Status != "" {
		query["status"] = string(filter.Status)
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, 0, len(filter.Statuses))
		for _, s := range filter.Statuses {
			statuses = append(statuses, string(s))
		}
		query["status"] = bson.M{"$in": statuses}
	}
	if filter.Priority != "" {
		query["priority"] = string(filter.Priority)
	}
	if filter.TeamID != "" {
		query["assigned_team_id"] = filter.TeamID
	}
	return query
}

func (r *ReportRepository) List(ctx context.Context, filter ports.ListReportsFilter) ([]*domain.Report, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := buildReportQuery(filter)

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count reports: %w", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}
	if filter.Skip > 0 {
		opts.SetSkip(int64(filter.Skip))
	}

	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list reports: %w", err)
	}
	defer cur.Close(ctx)

	var reports []*domain.Report
	for cur.Next(ctx) {
		var d reportDoc
		if err := cur.Decode(&d); err != nil {
			return nil, 0, fmt.Errorf("decode report: %w", err)
		}
		reports = append(reports, d.toReport())
	}
	return reports, total, cur.Err()
}

// Near runs a $near query against the 2dsphere index on location; results
// come back closest first.
func (r *ReportRepository) Near(ctx context.Context, lat, lng, maxMeters float64, reporterID string, limit int) ([]*domain.Report, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{
		"location": bson.M{
			"$near": bson.M{
				"$geometry": bson.M{
					"type":        "Point",
					"coordinates": []float64{lng, lat},
				},
				"$maxDistance": maxMeters,
			},
		},
	}
	if reporterID != "" {
		query["reporter_id"] = reporterID
	}

	opts := options.Find()
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("near reports: %w", err)
	}
	defer cur.Close(ctx)

	var reports []*domain.Report
	for cur.Next(ctx) {
		var d reportDoc
		if err := cur.Decode(&d); err != nil {
			return nil, fmt.Errorf("decode report: %w", err)
		}
		reports = append(reports, d.toReport())
	}
	return reports, cur.Err()
}

// Stats aggregates dashboard numbers in a single $facet pipeline.
func (r *ReportRepository) Stats(ctx context.Context, recentSince time.Time) (*ports.ReportStats, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$facet", Value: bson.M{
			"total": bson.A{bson.M{"$count": "n"}},
			"by_status": bson.A{
				bson.M{"$group": bson.M{"_id": "$status", "n": bson.M{"$sum": 1}}},
			},
			"by_priority": bson.A{
				bson.M{"$group": bson.M{"_id": "$priority", "n": bson.M{"$sum": 1}}},
			},
			"recent": bson.A{
				bson.M{"$match": bson.M{"created_at": bson.M{"$gte": recentSince}}},
				bson.M{"$count": "n"},
			},
			"completion": bson.A{
				bson.M{"$match": bson.M{"completed_at": bson.M{"$ne": nil}}},
				bson.M{"$project": bson.M{
					"ms": bson.M{"$subtract": bson.A{"$completed_at", "$created_at"}},
				}},
				bson.M{"$group": bson.M{"_id": nil, "avg_ms": bson.M{"$avg": "$ms"}}},
			},
		}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("report stats: %w", err)
	}
	defer cur.Close(ctx)

	var out []struct {
		Total []struct {
			N int64 `bson:"n"`
		} `bson:"total"`
		ByStatus []struct {
			ID string `bson:"_id"`
			N  int64  `bson:"n"`
		} `bson:"by_status"`
		ByPriority []struct {
			ID string `bson:"_id"`
			N  int64  `bson:"n"`
		} `bson:"by_priority"`
		Recent []struct {
			N int64 `bson:"n"`
		} `bson:"recent"`
		Completion []struct {
			AvgMs float64 `bson:"avg_ms"`
		} `bson:"completion"`
	}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode report stats: %w", err)
	}

	stats := &ports.ReportStats{
		ByStatus:   make(map[domain.ReportStatus]int64),
		ByPriority: make(map[domain.ReportPriority]int64),
	}
	if len(out) == 0 {
		return stats, nil
	}

	facets := out[0]
	if len(facets.Total) > 0 {
		stats.Total = facets.Total[0].N
	}
	for _, s := range facets.ByStatus {
		stats.ByStatus[domain.ReportStatus(s.ID)] = s.N
	}
	for _, p := range facets.ByPriority {
		stats.ByPriority[domain.ReportPriority(p.ID)] = p.N
	}
	if len(facets.Recent) > 0 {
		stats.RecentCount = facets.Recent[0].N
	}
	if len(facets.Completion) > 0 {
		stats.AvgCompletion = time.Duration(facets.Completion[0].AvgMs) * time.Millisecond
	}
	return stats, nil
}

// EnsureIndexes creates the geospatial and filter indexes.
func (r *ReportRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "location", Value: "2dsphere"}}},
		{Keys: bson.D{{Key: "reporter_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "priority", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
