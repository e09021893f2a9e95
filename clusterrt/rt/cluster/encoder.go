package cluster

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gekko3d/forwardplus/clusterrt/rt/core"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

// MaxLightsPerCluster is the default row capacity.
const MaxLightsPerCluster = 100

// cullSlack widens the whole-volume light cull, as a fraction of the far distance,
// so float error in the projection-derived planes never drops a touching light.
const cullSlack = 1e-3

var ErrInvalidCapacity = errors.New("max lights per cluster must be positive")

// Stats summarises one Update.
type Stats struct {
	Assigned int // light indices written across all rows
	Dropped  int // hits discarded because a row was full
	MaxCount int // fullest row
	NonEmpty int // rows with at least one light
	Culled   int // lights outside the whole clustered volume
}

func (s *Stats) merge(o Stats) {
	s.Assigned += o.Assigned
	s.Dropped += o.Dropped
	s.NonEmpty += o.NonEmpty
	if o.MaxCount > s.MaxCount {
		s.MaxCount = o.MaxCount
	}
}

type EncoderOption func(*Encoder)

// WithWorkers encodes depth slices on a pool of n workers. n <= 1 keeps the
// sequential path.
func WithWorkers(n int) EncoderOption {
	return func(e *Encoder) {
		e.workers = n
	}
}

// Encoder owns the cluster Buffer and rewrites it once per frame.
type Encoder struct {
	Grid      Grid
	MaxLights int

	builder    *Builder
	buffer     *Buffer
	candidates []int
	workers    int
	pool       worker.DynamicWorkerPool
	sliceStats []Stats
}

func NewEncoder(grid Grid, maxLights int, options ...EncoderOption) (*Encoder, error) {
	if err := grid.Validate(); err != nil {
		return nil, err
	}
	if maxLights <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, maxLights)
	}
	e := &Encoder{
		Grid:       grid,
		MaxLights:  maxLights,
		builder:    NewBuilder(grid),
		buffer:     NewBuffer(grid.Count(), maxLights),
		sliceStats: make([]Stats, grid.Z),
	}
	for _, option := range options {
		option(e)
	}
	if e.workers > 1 {
		// Queue holds a full frame of slices so submission never waits on a worker.
		e.pool = worker.NewDynamicWorkerPool(e.workers, grid.Z, 1*time.Second)
	}
	return e, nil
}

func (e *Encoder) Buffer() *Buffer {
	return e.buffer
}

func (e *Encoder) Workers() int {
	return e.workers
}

// Clusters returns the geometry of the last Update.
func (e *Encoder) Clusters() []Cluster {
	return e.builder.clusters
}

// Update rebuilds the cluster geometry for cam, assigns every light to the clusters
// it touches in light-list order and publishes the buffer. Rows that fill up keep
// the first MaxLights hits.
func (e *Encoder) Update(cam core.CameraParams, lights []core.Light) (*Buffer, Stats) {
	var stats Stats
	e.cullLights(cam, lights)
	stats.Culled = len(lights) - len(e.candidates)

	if e.workers <= 1 {
		for z := 0; z < e.Grid.Z; z++ {
			stats.merge(e.encodeSlice(cam, z, lights))
		}
	} else {
		var wg sync.WaitGroup
		for z := 0; z < e.Grid.Z; z++ {
			wg.Add(1)
			slice := z
			e.pool.SubmitTask(worker.Task{
				ID: slice,
				Do: func() (any, error) {
					defer wg.Done()
					e.sliceStats[slice] = e.encodeSlice(cam, slice, lights)
					return nil, nil
				},
			})
		}
		wg.Wait()
		for _, s := range e.sliceStats {
			stats.merge(s)
		}
	}

	e.buffer.Publish()
	return e.buffer, stats
}

// cullLights keeps the lights whose sphere reaches the clustered volume.
func (e *Encoder) cullLights(cam core.CameraParams, lights []core.Light) {
	e.candidates = e.candidates[:0]
	volume := core.ExtractFrustum(cam.ClusterProjection().Mul4(cam.ViewMatrix()))
	slack := cam.Far * cullSlack
	for i := range lights {
		if volume.IntersectsSphere(lights[i].Position, lights[i].Radius+slack) {
			e.candidates = append(e.candidates, i)
		}
	}
}

func (e *Encoder) encodeSlice(cam core.CameraParams, z int, lights []core.Light) Stats {
	var s Stats
	clusters := e.builder.BuildSlice(cam, z)
	for i := range clusters {
		c := &clusters[i]
		row := e.buffer.Row(c.ID)
		row[0] = 0

		count := 0
		for _, li := range e.candidates {
			if !c.Frustum.IntersectsLight(&lights[li]) {
				continue
			}
			if count >= e.MaxLights {
				s.Dropped++
				continue
			}
			count++
			row[count] = uint32(li)
		}
		row[0] = uint32(count)

		s.Assigned += count
		if count > 0 {
			s.NonEmpty++
		}
		if count > s.MaxCount {
			s.MaxCount = count
		}
	}
	return s
}
