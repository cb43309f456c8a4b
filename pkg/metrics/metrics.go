package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var Uploads = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "vidshare_uploads_total",
	Help: "Video create attempts by outcome.",
}, []string{"result"})
var Deletes = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "vidshare_deletes_total",
	Help: "Video delete attempts by outcome.",
}, []string{"result"})
var MediaOrphans = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "vidshare_media_orphans_total",
	Help: "Media objects left without a catalog record, by lifecycle stage.",
}, []string{"stage"})
var FeedCache = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "vidshare_feed_cache_total",
	Help: "Feed cache lookups and skipped writes by result.",
}, []string{"result"})

func init() {
	prometheus.MustRegister(Uploads)
	prometheus.MustRegister(Deletes)
	prometheus.MustRegister(MediaOrphans)
	prometheus.MustRegister(FeedCache)
}
