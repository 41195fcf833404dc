package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQdrantIndex_RequiresVectorSize(t *testing.T) {
	_, err := NewQdrantIndex("http://localhost:6334", "", "questions", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vector size")
}

func TestCheckVectorSize(t *testing.T) {
	points := []IndexPoint{
		{QuestionID: "q1", Vector: make([]float32, 768)},
		{QuestionID: "q2", Vector: make([]float32, 3072)},
	}

	assert.NoError(t, checkVectorSize(points[:1], 768))

	err := checkVectorSize(points, 768)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "q2")
	assert.Contains(t, err.Error(), "3072")
}
