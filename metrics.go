// This is free and unencumbered software released into the public domain.
//
// Anyone is free to copy, modify, publish, use, compile, sell, or
// distribute this software, either in source code form or as a compiled
// binary, for any purpose, commercial or non-commercial, and by any
// means.
//
// In jurisdictions that recognize copyright laws, the author or authors
// of this software dedicate any and all copyright interest in the
// software to the public domain. We make this dedication for the benefit
// of the public at large and to the detriment of our heirs and
// successors. We intend this dedication to be an overt act of
// relinquishment in perpetuity of all present and future rights to this
// software under copyright law.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
// EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF
// MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.
// IN NO EVENT SHALL THE AUTHORS BE LIABLE FOR ANY CLAIM, DAMAGES OR
// OTHER LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE,
// ARISING FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR
// OTHER DEALINGS IN THE SOFTWARE.
//
// For more information, please refer to <https://unlicense.org>

package ndlife

import "github.com/prometheus/client_golang/prometheus"

// cacheCollector exposes a cache's instrumentation counters as
// prometheus metrics.
type cacheCollector struct {
	cache *Cache

	nodes        *prometheus.Desc
	interns      *prometheus.Desc
	internHits   *prometheus.Desc
	resultHits   *prometheus.Desc
	resultMisses *prometheus.Desc
	collections  *prometheus.Desc
}

// NewCacheCollector returns a prometheus collector reporting the
// cache's node count and hit/miss counters. Register it with any
// prometheus registry.
func NewCacheCollector(c *Cache) prometheus.Collector {
	return &cacheCollector{
		cache: c,
		nodes: prometheus.NewDesc(
			"ndlife_cache_nodes",
			"Number of nodes currently interned in the cache.",
			nil, nil),
		interns: prometheus.NewDesc(
			"ndlife_cache_interns_total",
			"Intern requests that created a new node.",
			nil, nil),
		internHits: prometheus.NewDesc(
			"ndlife_cache_intern_hits_total",
			"Intern requests answered from the table.",
			nil, nil),
		resultHits: prometheus.NewDesc(
			"ndlife_cache_result_hits_total",
			"Memoized step results served.",
			nil, nil),
		resultMisses: prometheus.NewDesc(
			"ndlife_cache_result_misses_total",
			"Step results that had to be computed.",
			nil, nil),
		collections: prometheus.NewDesc(
			"ndlife_cache_collections_total",
			"Garbage collection sweeps run.",
			nil, nil),
	}
}

func (cc *cacheCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- cc.nodes
	ch <- cc.interns
	ch <- cc.internHits
	ch <- cc.resultHits
	ch <- cc.resultMisses
	ch <- cc.collections
}

func (cc *cacheCollector) Collect(ch chan<- prometheus.Metric) {
	stats := cc.cache.Stats()
	ch <- prometheus.MustNewConstMetric(cc.nodes, prometheus.GaugeValue, float64(stats.Nodes))
	ch <- prometheus.MustNewConstMetric(cc.interns, prometheus.CounterValue, float64(stats.Interns))
	ch <- prometheus.MustNewConstMetric(cc.internHits, prometheus.CounterValue, float64(stats.InternHits))
	ch <- prometheus.MustNewConstMetric(cc.resultHits, prometheus.CounterValue, float64(stats.ResultHits))
	ch <- prometheus.MustNewConstMetric(cc.resultMisses, prometheus.CounterValue, float64(stats.ResultMisses))
	ch <- prometheus.MustNewConstMetric(cc.collections, prometheus.CounterValue, float64(stats.Collections))
}
