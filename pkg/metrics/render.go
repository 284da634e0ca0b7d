package metrics

import (
	"bytes"
	"fmt"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

// seriesOrder is the spec §4.6/§8-mandated exposition order: received_total
// first, queue_depth last. prometheus.Registry.Gather sorts MetricFamily
// entries alphabetically by name, which does not match this order (it puts
// dropped_total first), so renderText re-sequences Gather's output by name
// rather than trusting it.
var seriesOrder = []string{
	"logcollector_received_total",
	"logcollector_written_total",
	"logcollector_dropped_total",
	"logcollector_queue_depth",
}

// renderText gathers the registry and renders it in Prometheus text
// exposition format 0.0.4, the exact wire format spec §4.6 mandates for
// GET /metrics, in the fixed series order the spec's scenario 5 regex
// requires rather than Gather's incidental alphabetical order.
func (r *registry) renderText() ([]byte, error) {
	families, err := r.reg.Gather()
	if err != nil {
		return nil, fmt.Errorf("metrics: gather: %w", err)
	}

	byName := make(map[string]*dto.MetricFamily, len(families))
	for _, mf := range families {
		byName[mf.GetName()] = mf
	}

	var buf bytes.Buffer
	enc := expfmt.NewEncoder(&buf, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, name := range seriesOrder {
		mf, ok := byName[name]
		if !ok {
			continue
		}
		if err := enc.Encode(mf); err != nil {
			return nil, fmt.Errorf("metrics: encode: %w", err)
		}
	}
	return buf.Bytes(), nil
}

// healthJSON renders the GET /health body spec §4.6 specifies literally:
// {"status":"ok","received":R,"written":W,"dropped":D,"queue_depth":Q}
// with decimal integers, not through encoding/json's field reordering.
func healthJSON(src Source) []byte {
	return []byte(fmt.Sprintf(
		`{"status":"ok","received":%d,"written":%d,"dropped":%d,"queue_depth":%d}`,
		int64(src.Received()), int64(src.Written()), int64(src.Dropped()), int64(src.QueueDepth()),
	))
}
