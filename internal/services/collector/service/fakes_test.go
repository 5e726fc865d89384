package service

import (
	"context"
	"sync"

	"feasibility/internal/adapters/fhir"
	perr "feasibility/internal/platform/errors"
)

// fakeReader serves documents keyed by Type/id and counts reads
type fakeReader struct {
	mu    sync.Mutex
	docs  map[string][]byte
	reads map[string]int
}

func readerOf(docs map[string][]byte) *fakeReader {
	return &fakeReader{docs: docs, reads: map[string]int{}}
}

func (f *fakeReader) Read(_ context.Context, typ, id string) (fhir.Resource, error) {
	key := typ + "/" + id
	f.mu.Lock()
	f.reads[key]++
	doc, ok := f.docs[key]
	f.mu.Unlock()
	if !ok {
		return fhir.Resource{}, perr.NotFoundf("%s not found", key)
	}
	return fhir.Parse(doc)
}

func (f *fakeReader) Reads(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reads[key]
}

func (f *fakeReader) TotalReads() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, v := range f.reads {
		n += v
	}
	return n
}

// fakeSub records the installed handler; Listen blocks until ctx is done
type fakeSub struct {
	mu      sync.Mutex
	handler fhir.Handler
}

func (s *fakeSub) Subscribe(h fhir.Handler) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.handler != nil {
		return fhir.ErrHandlerInstalled
	}
	s.handler = h
	return nil
}

func (s *fakeSub) Listen(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

// deliver pushes a document through the installed handler like the websocket would
func (s *fakeSub) deliver(ctx context.Context, doc []byte) {
	s.mu.Lock()
	h := s.handler
	s.mu.Unlock()
	h(ctx, mustParse(doc))
}

type fakeProvider struct {
	reader   fhir.ResourceReader
	sub      fhir.Subscription
	restErr  error
	wsErr    error
	wsCalled bool
}

func (p *fakeProvider) WebserviceClient(context.Context) (fhir.ResourceReader, error) {
	if p.restErr != nil {
		return nil, p.restErr
	}
	return p.reader, nil
}

func (p *fakeProvider) WebsocketClient(context.Context) (fhir.Subscription, error) {
	p.wsCalled = true
	if p.wsErr != nil {
		return nil, p.wsErr
	}
	return p.sub, nil
}

func mustParse(doc []byte) fhir.Resource {
	r, err := fhir.Parse(doc)
	if err != nil {
		panic(err)
	}
	return r
}
