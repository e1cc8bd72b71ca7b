package milvus

import (
	"context"
	"testing"

	"github.com/milvus-io/milvus/client/v2/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	milvusopts "github.com/Shreeshail-sp/docsearch/pkg/options/milvus"
)

func TestMetricType(t *testing.T) {
	for metric, want := range map[string]entity.MetricType{
		"":       entity.COSINE,
		"cosine": entity.COSINE,
		"l2":     entity.L2,
		"ip":     entity.IP,
	} {
		got, err := MetricType(metric)
		require.NoError(t, err)
		assert.Equal(t, want, got, metric)
	}

	_, err := MetricType("hamming")
	assert.Error(t, err)
}

func TestConsistencyLevel(t *testing.T) {
	assert.Equal(t, entity.ClStrong, consistencyLevel(milvusopts.ConsistencyStrong))
	assert.Equal(t, entity.ClSession, consistencyLevel(milvusopts.ConsistencySession))
	assert.Equal(t, entity.ClBounded, consistencyLevel(milvusopts.ConsistencyBounded))
	assert.Equal(t, entity.ClEventually, consistencyLevel(milvusopts.ConsistencyEventually))
}

func TestNew_InvalidOptions(t *testing.T) {
	_, err := New(context.Background(), nil)
	assert.Error(t, err)

	opts := milvusopts.NewOptions()
	opts.Consistency = "linearizable"
	_, err = New(context.Background(), opts)
	assert.ErrorContains(t, err, "invalid milvus options")
}
