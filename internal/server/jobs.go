package server

import (
	"sync"
	"time"

	"sentix/models"
)

// jobRetention is how long finished jobs stay pollable.
const jobRetention = time.Hour

// JobTable tracks asynchronous generation jobs in memory.
type JobTable struct {
	mu   sync.Mutex
	jobs map[string]*models.GenerationJob
}

func NewJobTable() *JobTable {
	return &JobTable{jobs: make(map[string]*models.GenerationJob)}
}

// Put stores a copy of job, replacing any job with the same ID.
func (t *JobTable) Put(job *models.GenerationJob) {
	cp := *job
	t.mu.Lock()
	t.jobs[job.ID] = &cp
	t.mu.Unlock()
}

// Get returns a copy of the job.
func (t *JobTable) Get(id string) (models.GenerationJob, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	job, ok := t.jobs[id]
	if !ok {
		return models.GenerationJob{}, false
	}
	return *job, true
}

// Update applies fn to the stored job. It reports false for unknown IDs.
func (t *JobTable) Update(id string, fn func(*models.GenerationJob)) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	job, ok := t.jobs[id]
	if !ok {
		return false
	}
	fn(job)
	return true
}

// Apply records a finished job received from a worker. Jobs this server
// never issued are ignored.
func (t *JobTable) Apply(result models.GenerationJob) bool {
	return t.Update(result.ID, func(j *models.GenerationJob) {
		j.Status = result.Status
		j.SRT = result.SRT
		j.Error = result.Error
		j.CompletedAt = result.CompletedAt
	})
}

// Prune forgets jobs that finished before now minus jobRetention.
func (t *JobTable) Prune(now time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for id, job := range t.jobs {
		if job.CompletedAt != nil && now.Sub(*job.CompletedAt) > jobRetention {
			delete(t.jobs, id)
			n++
		}
	}
	return n
}
