package model

import "sync"

// Loader memoises the first successful Load of a model path, so the artifact
// is read once per process no matter how many submissions ask for it. A
// failed load is not cached.
type Loader struct {
	path string

	mu        sync.Mutex
	predictor *Predictor
}

// NewLoader returns a Loader for the model at path
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Get returns the loaded model, reading it on first use
func (l *Loader) Get() (*Predictor, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.predictor != nil {
		return l.predictor, nil
	}
	p, err := Load(l.path)
	if err != nil {
		return nil, err
	}
	l.predictor = p
	return p, nil
}

// Path returns the configured model path
func (l *Loader) Path() string { return l.path }
