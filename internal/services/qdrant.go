package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"
)

// CandidateIndex keeps one résumé vector per filename for nearest-neighbour
// search against a job description.
type CandidateIndex interface {
	InitCollection(ctx context.Context) error
	Upsert(ctx context.Context, filename string, vector []float32, payload IndexPayload) error
	Search(ctx context.Context, vector []float32, limit int) ([]IndexHit, error)
	Clear(ctx context.Context) error
}

type IndexPayload struct {
	MatchPercentage float64
	Status          string
	Skills          []string
}

type IndexHit struct {
	Filename        string
	Score           float32
	MatchPercentage float64
	Status          string
}

type qdrantIndex struct {
	client         *qdrant.Client
	collectionName string
	vectorSize     uint64
	logger         *zap.Logger
}

func NewQdrantIndex(urlStr, apiKey, collectionName string, vectorSize uint64, logger *zap.Logger) (CandidateIndex, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// gRPC port
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &qdrantIndex{
		client:         client,
		collectionName: collectionName,
		vectorSize:     vectorSize,
		logger:         logger,
	}, nil
}

// InitCollection implements CandidateIndex.
func (q *qdrantIndex) InitCollection(ctx context.Context) error {
	exists, err := q.client.CollectionExists(ctx, q.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if exists {
		q.logger.Debug("qdrant collection already exists", zap.String("collection", q.collectionName))
		return nil
	}

	err = q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: q.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     q.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	q.logger.Info("qdrant collection created", zap.String("collection", q.collectionName))
	return nil
}

// Upsert implements CandidateIndex. The point ID is derived from the filename
// so a re-upload replaces the previous vector.
func (q *qdrantIndex) Upsert(ctx context.Context, filename string, vector []float32, payload IndexPayload) error {
	skills := make([]interface{}, 0, len(payload.Skills))
	for _, s := range payload.Skills {
		skills = append(skills, s)
	}

	point := &qdrant.PointStruct{
		Id:      qdrant.NewIDUUID(PointID(filename)),
		Vectors: qdrant.NewVectors(vector...),
		Payload: qdrant.NewValueMap(map[string]interface{}{
			"filename":         filename,
			"match_percentage": payload.MatchPercentage,
			"status":           payload.Status,
			"skills":           skills,
		}),
	}

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collectionName,
		Points:         []*qdrant.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("failed to upsert point: %w", err)
	}

	return nil
}

// Search implements CandidateIndex.
func (q *qdrantIndex) Search(ctx context.Context, vector []float32, limit int) ([]IndexHit, error) {
	points, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.collectionName,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	hits := make([]IndexHit, 0, len(points))
	for _, point := range points {
		payload := point.Payload
		hit := IndexHit{Score: point.Score}

		if v, ok := payload["filename"]; ok {
			hit.Filename = v.GetStringValue()
		}
		if v, ok := payload["status"]; ok {
			hit.Status = v.GetStringValue()
		}
		if v, ok := payload["match_percentage"]; ok {
			hit.MatchPercentage = v.GetDoubleValue()
		}

		hits = append(hits, hit)
	}

	return hits, nil
}

// Clear implements CandidateIndex.
func (q *qdrantIndex) Clear(ctx context.Context) error {
	_, err := q.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: q.collectionName,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Filter{
				Filter: &qdrant.Filter{},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to clear collection: %w", err)
	}

	return nil
}

// PointID is the deterministic vector ID of a filename.
func PointID(filename string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("resume-scanner/"+filename)).String()
}

type noopIndex struct{}

// NewNoopIndex is used when no vector store is configured. Searches return
// no hits.
func NewNoopIndex() CandidateIndex {
	return noopIndex{}
}

func (noopIndex) InitCollection(context.Context) error { return nil }

func (noopIndex) Upsert(context.Context, string, []float32, IndexPayload) error { return nil }

func (noopIndex) Search(context.Context, []float32, int) ([]IndexHit, error) {
	return []IndexHit{}, nil
}

func (noopIndex) Clear(context.Context) error { return nil }
