package forwardplus

import (
	"github.com/gekko3d/forwardplus/clusterrt/rt/cluster"
	"github.com/gekko3d/forwardplus/clusterrt/rt/core"
)

// Pipeline runs cluster assignment once per frame and reports what it did.
type Pipeline struct {
	encoder *cluster.Encoder
	log     Logger

	frames uint64
	last   cluster.Stats
}

func NewPipeline(cfg *Config, log Logger) (*Pipeline, error) {
	log = orNop(log)
	enc, err := cluster.NewEncoder(cfg.ClusterGrid(), cfg.MaxLightsPerCluster, cluster.WithWorkers(cfg.Workers))
	if err != nil {
		return nil, err
	}
	log.Infof("Cluster grid %s, %d lights per cluster, cluster far %g, %d workers",
		enc.Grid, enc.MaxLights, cfg.ClusterFar, enc.Workers())
	return &Pipeline{encoder: enc, log: log}, nil
}

func (p *Pipeline) Grid() cluster.Grid {
	return p.encoder.Grid
}

// Frame assigns lights for cam and publishes the cluster buffer.
func (p *Pipeline) Frame(cam core.CameraParams, lights []core.Light) (*cluster.Buffer, cluster.Stats) {
	buf, stats := p.encoder.Update(cam, lights)
	p.frames++
	wasDropping := p.last.Dropped > 0
	p.last = stats

	if p.log.DebugEnabled() {
		p.log.Debugf("frame %d: %d lights, %d culled, %d indices in %d clusters, fullest %d, %d dropped",
			p.frames, len(lights), stats.Culled, stats.Assigned, stats.NonEmpty, stats.MaxCount, stats.Dropped)
	}
	// Truncation usually lasts many frames; report its edges only.
	switch dropping := stats.Dropped > 0; {
	case dropping && !wasDropping:
		p.log.Warnf("frame %d: %d light hits dropped at %d per cluster", p.frames, stats.Dropped, p.encoder.MaxLights)
	case !dropping && wasDropping:
		p.log.Infof("frame %d: cluster lists fit in %d slots again", p.frames, p.encoder.MaxLights)
	}
	return buf, stats
}

// Clusters implements app.ClusterSource.
func (p *Pipeline) Clusters(cam core.CameraParams, lights []core.Light) *cluster.Buffer {
	buf, _ := p.Frame(cam, lights)
	return buf
}

func (p *Pipeline) Buffer() *cluster.Buffer {
	return p.encoder.Buffer()
}

func (p *Pipeline) Frames() uint64 {
	return p.frames
}

func (p *Pipeline) LastStats() cluster.Stats {
	return p.last
}
