package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"mercator-hq/ganymede/pkg/balancer"
)

// CapacitySource is the slice of the manager the capacity collector reads.
type CapacitySource interface {
	SystemLoad() float64
	Models() []*balancer.Model
}

// capacityCollector exports live occupancy and capacity gauges. Values are
// read from the source at scrape time, so the scrape always reflects the
// current admission state rather than a sampled copy.
type capacityCollector struct {
	source CapacitySource

	systemLoad     *prometheus.Desc
	modelOccupancy *prometheus.Desc
	modelCapacity  *prometheus.Desc
	keyOccupancy   *prometheus.Desc
}

// RegisterCapacity attaches live capacity gauges for the given source.
func (c *Collector) RegisterCapacity(source CapacitySource) {
	fqName := func(name string) string {
		return prometheus.BuildFQName(c.config.Namespace, c.config.Subsystem, name)
	}

	c.registry.MustRegister(&capacityCollector{
		source: source,
		systemLoad: prometheus.NewDesc(
			fqName("system_load_percent"),
			"Aggregate utilization across all models, 0-100",
			nil, nil,
		),
		modelOccupancy: prometheus.NewDesc(
			fqName("model_occupancy"),
			"Current admissions per model",
			[]string{"model", "type"}, nil,
		),
		modelCapacity: prometheus.NewDesc(
			fqName("model_capacity"),
			"Configured capacity per model",
			[]string{"model", "type"}, nil,
		),
		keyOccupancy: prometheus.NewDesc(
			fqName("key_occupancy"),
			"Current admissions per credential",
			[]string{"model", "key"}, nil,
		),
	})
}

func (cc *capacityCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- cc.systemLoad
	ch <- cc.modelOccupancy
	ch <- cc.modelCapacity
	ch <- cc.keyOccupancy
}

func (cc *capacityCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(cc.systemLoad, prometheus.GaugeValue, cc.source.SystemLoad())

	for _, model := range cc.source.Models() {
		current, max := model.CapacityInfo()
		typ := string(model.Type())
		name := model.Name()

		ch <- prometheus.MustNewConstMetric(cc.modelOccupancy, prometheus.GaugeValue,
			float64(current), name, typ)
		ch <- prometheus.MustNewConstMetric(cc.modelCapacity, prometheus.GaugeValue,
			float64(max), name, typ)

		for _, cred := range model.Credentials() {
			ch <- prometheus.MustNewConstMetric(cc.keyOccupancy, prometheus.GaugeValue,
				float64(model.Occupancy(cred.Key)), name, cred.Key)
		}
	}
}
