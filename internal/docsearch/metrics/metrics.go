// Package metrics 提供 docsearch 服务的业务指标收集。
package metrics

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Metrics docsearch 业务指标。
type Metrics struct {
	// 上传与索引
	uploads              atomic.Uint64
	uploadFailures       atomic.Uint64
	chunksIndexed        atomic.Uint64
	vectorInsertFailures atomic.Uint64

	// 查询
	searches        atomic.Uint64
	answers         atomic.Uint64
	queryErrors     atomic.Uint64
	emptyRetrievals atomic.Uint64
	cacheHits       atomic.Uint64
	cacheMisses     atomic.Uint64

	durationMu    sync.Mutex
	uploadSeconds float64
	searchSeconds float64
	answerSeconds float64
	startTime     time.Time
}

// New 创建指标实例。
func New() *Metrics {
	return &Metrics{startTime: time.Now()}
}

// RecordUpload 记录一次上传，vectorPending 表示向量写入失败但分块已落盘。
func (m *Metrics) RecordUpload(duration time.Duration, chunks int, vectorPending bool, err error) {
	m.uploads.Add(1)
	if err != nil {
		m.uploadFailures.Add(1)
		return
	}
	m.chunksIndexed.Add(uint64(chunks))
	if vectorPending {
		m.vectorInsertFailures.Add(1)
	}
	m.addDuration(&m.uploadSeconds, duration)
}

// RecordSearch 记录一次检索。
func (m *Metrics) RecordSearch(duration time.Duration, results int, err error) {
	m.searches.Add(1)
	m.recordQuery(&m.searchSeconds, duration, results, err)
}

// RecordAnswer 记录一次问答。
func (m *Metrics) RecordAnswer(duration time.Duration, results int, err error) {
	m.answers.Add(1)
	m.recordQuery(&m.answerSeconds, duration, results, err)
}

// RecordCache 记录查询缓存命中情况。
func (m *Metrics) RecordCache(hit bool) {
	if hit {
		m.cacheHits.Add(1)
	} else {
		m.cacheMisses.Add(1)
	}
}

func (m *Metrics) recordQuery(total *float64, duration time.Duration, results int, err error) {
	if err != nil {
		m.queryErrors.Add(1)
		return
	}
	if results == 0 {
		m.emptyRetrievals.Add(1)
	}
	m.addDuration(total, duration)
}

func (m *Metrics) addDuration(total *float64, d time.Duration) {
	m.durationMu.Lock()
	*total += d.Seconds()
	m.durationMu.Unlock()
}

// Snapshot 指标快照。
type Snapshot struct {
	Uploads              uint64  `json:"uploads"`
	UploadFailures       uint64  `json:"upload_failures"`
	ChunksIndexed        uint64  `json:"chunks_indexed"`
	VectorInsertFailures uint64  `json:"vector_insert_failures"`
	Searches             uint64  `json:"searches"`
	Answers              uint64  `json:"answers"`
	QueryErrors          uint64  `json:"query_errors"`
	EmptyRetrievals      uint64  `json:"empty_retrievals"`
	CacheHits            uint64  `json:"cache_hits"`
	CacheMisses          uint64  `json:"cache_misses"`
	CacheHitRate         float64 `json:"cache_hit_rate"`
	AvgUploadSeconds     float64 `json:"avg_upload_seconds"`
	AvgSearchSeconds     float64 `json:"avg_search_seconds"`
	AvgAnswerSeconds     float64 `json:"avg_answer_seconds"`
	UptimeSeconds        float64 `json:"uptime_seconds"`
}

// Snapshot 返回当前指标。
func (m *Metrics) Snapshot() Snapshot {
	s := Snapshot{
		Uploads:              m.uploads.Load(),
		UploadFailures:       m.uploadFailures.Load(),
		ChunksIndexed:        m.chunksIndexed.Load(),
		VectorInsertFailures: m.vectorInsertFailures.Load(),
		Searches:             m.searches.Load(),
		Answers:              m.answers.Load(),
		QueryErrors:          m.queryErrors.Load(),
		EmptyRetrievals:      m.emptyRetrievals.Load(),
		CacheHits:            m.cacheHits.Load(),
		CacheMisses:          m.cacheMisses.Load(),
	}
	if total := s.CacheHits + s.CacheMisses; total > 0 {
		s.CacheHitRate = float64(s.CacheHits) / float64(total)
	}

	m.durationMu.Lock()
	upload, search, answer := m.uploadSeconds, m.searchSeconds, m.answerSeconds
	s.UptimeSeconds = time.Since(m.startTime).Seconds()
	m.durationMu.Unlock()

	s.AvgUploadSeconds = average(upload, s.Uploads-s.UploadFailures)
	s.AvgSearchSeconds = average(search, s.Searches)
	s.AvgAnswerSeconds = average(answer, s.Answers)
	return s
}

func average(total float64, n uint64) float64 {
	if n == 0 {
		return 0
	}
	return total / float64(n)
}

// Export 导出 Prometheus 文本格式指标。
func (m *Metrics) Export(namespace string) string {
	s := m.Snapshot()

	var sb strings.Builder
	write := func(name, kind, help string, value any) {
		fmt.Fprintf(&sb, "# HELP %s_%s %s\n", namespace, name, help)
		fmt.Fprintf(&sb, "# TYPE %s_%s %s\n", namespace, name, kind)
		fmt.Fprintf(&sb, "%s_%s %v\n\n", namespace, name, value)
	}

	write("uploads_total", "counter", "Total number of document uploads.", s.Uploads)
	write("upload_failures_total", "counter", "Number of failed uploads.", s.UploadFailures)
	write("chunks_indexed_total", "counter", "Total chunks written to the chunk store.", s.ChunksIndexed)
	write("vector_insert_failures_total", "counter", "Uploads whose vector insert failed.", s.VectorInsertFailures)
	write("searches_total", "counter", "Total number of search queries.", s.Searches)
	write("answers_total", "counter", "Total number of answer queries.", s.Answers)
	write("query_errors_total", "counter", "Number of failed queries.", s.QueryErrors)
	write("empty_retrievals_total", "counter", "Queries that retrieved nothing.", s.EmptyRetrievals)
	write("cache_hits_total", "counter", "Query cache hits.", s.CacheHits)
	write("cache_misses_total", "counter", "Query cache misses.", s.CacheMisses)
	write("cache_hit_rate", "gauge", "Query cache hit rate (0-1).", fmt.Sprintf("%.4f", s.CacheHitRate))
	write("uptime_seconds", "gauge", "Service uptime in seconds.", fmt.Sprintf("%.2f", s.UptimeSeconds))

	return sb.String()
}
