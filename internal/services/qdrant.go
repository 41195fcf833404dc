package services

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"

	"github.com/qdrant/go-client/qdrant"
)

// QuestionIndex stores one vector per saved question, scoped by user.
type QuestionIndex interface {
	InitCollection(ctx context.Context) error
	UpsertQuestions(ctx context.Context, points []IndexPoint) error
	Search(ctx context.Context, vector []float32, userID string, limit int) ([]IndexHit, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

type IndexPoint struct {
	QuestionID string
	SessionID  string
	UserID     string
	Text       string
	Vector     []float32
}

type IndexHit struct {
	QuestionID string
	SessionID  string
	Text       string
	Score      float32
}

type qdrantIndex struct {
	client         *qdrant.Client
	collectionName string
	vectorSize     uint64
}

func NewQdrantIndex(urlStr, apiKey, collectionName string, vectorSize uint64) (QuestionIndex, error) {
	if vectorSize == 0 {
		return nil, fmt.Errorf("qdrant vector size must be positive")
	}

	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	// gRPC port unless the URL says otherwise
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   parsed.Hostname(),
		Port:   port,
		APIKey: apiKey,
		UseTLS: parsed.Scheme == "https",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &qdrantIndex{
		client:         client,
		collectionName: collectionName,
		vectorSize:     vectorSize,
	}, nil
}

// InitCollection implements QuestionIndex.
func (q *qdrantIndex) InitCollection(ctx context.Context) error {
	exists, err := q.client.CollectionExists(ctx, q.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if exists {
		info, err := q.client.GetCollectionInfo(ctx, q.collectionName)
		if err != nil {
			return fmt.Errorf("failed to read collection info: %w", err)
		}
		size := info.GetConfig().GetParams().GetVectorsConfig().GetParams().GetSize()
		if size != 0 && size != q.vectorSize {
			return fmt.Errorf("collection '%s' stores %d-dimensional vectors, embeddings have %d", q.collectionName, size, q.vectorSize)
		}
		log.Printf("✅ Qdrant collection '%s' already exists\n", q.collectionName)
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

	log.Printf("✅ Qdrant collection '%s' created successfully\n", q.collectionName)
	return nil
}

// UpsertQuestions implements QuestionIndex.
func (q *qdrantIndex) UpsertQuestions(ctx context.Context, points []IndexPoint) error {
	if len(points) == 0 {
		return nil
	}
	if err := checkVectorSize(points, q.vectorSize); err != nil {
		return err
	}

	structs := make([]*qdrant.PointStruct, 0, len(points))
	for _, p := range points {
		structs = append(structs, &qdrant.PointStruct{
			Id:      qdrant.NewID(p.QuestionID),
			Vectors: qdrant.NewVectors(p.Vector...),
			Payload: qdrant.NewValueMap(map[string]any{
				"question_id": p.QuestionID,
				"session_id":  p.SessionID,
				"user_id":     p.UserID,
				"text":        p.Text,
			}),
		})
	}

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collectionName,
		Wait:           qdrant.PtrOf(true),
		Points:         structs,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert points: %w", err)
	}

	return nil
}

// Search implements QuestionIndex.
func (q *qdrantIndex) Search(ctx context.Context, vector []float32, userID string, limit int) ([]IndexHit, error) {
	points, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.collectionName,
		Query:          qdrant.NewQuery(vector...),
		Filter: &qdrant.Filter{
			Must: []*qdrant.Condition{
				qdrant.NewMatch("user_id", userID),
			},
		},
		Limit:       qdrant.PtrOf(uint64(limit)),
		WithPayload: qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	hits := make([]IndexHit, 0, len(points))
	for _, point := range points {
		payload := point.GetPayload()
		hits = append(hits, IndexHit{
			QuestionID: payload["question_id"].GetStringValue(),
			SessionID:  payload["session_id"].GetStringValue(),
			Text:       payload["text"].GetStringValue(),
			Score:      point.GetScore(),
		})
	}

	return hits, nil
}

// DeleteSession implements QuestionIndex.
func (q *qdrantIndex) DeleteSession(ctx context.Context, sessionID string) error {
	_, err := q.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: q.collectionName,
		Points: qdrant.NewPointsSelectorFilter(&qdrant.Filter{
			Must: []*qdrant.Condition{
				qdrant.NewMatch("session_id", sessionID),
			},
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to delete session points: %w", err)
	}

	return nil
}

func checkVectorSize(points []IndexPoint, size uint64) error {
	for _, p := range points {
		if uint64(len(p.Vector)) != size {
			return fmt.Errorf("question %s has a %d-dimensional vector, collection expects %d", p.QuestionID, len(p.Vector), size)
		}
	}
	return nil
}
