package operations

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStep is a configurable step for exercising the registry and manager
type fakeStep struct {
	BaseStep
	inputs      []DataRequirement
	outputs     []DataOutput
	validateErr error
	run         func(ctx context.Context, state *OperationState) error
	calls       int
}

func newFakeStep(id string, deps ...string) *fakeStep {
	return &fakeStep{BaseStep: NewBaseStep(id, "Fake "+id, deps)}
}

func (f *fakeStep) RequiredInputs() []DataRequirement { return f.inputs }

func (f *fakeStep) ProducedOutputs() []DataOutput { return f.outputs }

func (f *fakeStep) CanRun(manifest *PipelineManifest) bool {
	return canRun(f.inputs, manifest)
}

func (f *fakeStep) Validate(state *OperationState) error {
	if f.validateErr != nil {
		return f.validateErr
	}
	return f.BaseStep.Validate(state)
}

func (f *fakeStep) Execute(ctx context.Context, state *OperationState) error {
	f.calls++
	if f.run != nil {
		if err := f.run(ctx, state); err != nil {
			return err
		}
	}
	for _, out := range f.outputs {
		state.Manifest.AddData(&DataInfo{Type: out.Type, Location: out.Location, CreatedBy: f.ID()})
	}
	report(state, f.ID(), "done "+f.ID(), nil)
	return nil
}

func ids(steps []Step) []string {
	out := make([]string, len(steps))
	for i, s := range steps {
		out[i] = s.ID()
	}
	return out
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register(newFakeStep("a")))
	require.NoError(t, r.Register(newFakeStep("b", "a")))

	assert.Error(t, r.Register(newFakeStep("a")), "duplicate id")
	assert.Error(t, r.Register(nil))
	assert.Error(t, r.Register(newFakeStep("")))

	assert.Equal(t, 2, r.Count())
	assert.True(t, r.Has("b"))
	assert.False(t, r.Has("c"))
	assert.Equal(t, []string{"a", "b"}, r.ListIDs())
	assert.Equal(t, []string{"a", "b"}, ids(r.List()))

	step, err := r.Get("b")
	require.NoError(t, err)
	assert.Equal(t, "Fake b", step.Name())

	_, err = r.Get("missing")
	assert.Equal(t, ErrorTypeNotFound, GetErrorType(err))
}

func TestRegistry_GetDependencyOrder(t *testing.T) {
	tests := []struct {
		name     string
		steps    []*fakeStep
		expected []string
		wantErr  bool
	}{
		{
			name:     "linear chain registered backwards",
			steps:    []*fakeStep{newFakeStep("filter", "summarize"), newFakeStep("summarize", "aggregate"), newFakeStep("aggregate")},
			expected: []string{"aggregate", "summarize", "filter"},
		},
		{
			name:     "independent steps keep registration order",
			steps:    []*fakeStep{newFakeStep("b"), newFakeStep("a"), newFakeStep("c")},
			expected: []string{"b", "a", "c"},
		},
		{
			name:     "diamond",
			steps:    []*fakeStep{newFakeStep("d", "b", "c"), newFakeStep("c", "a"), newFakeStep("b", "a"), newFakeStep("a")},
			expected: []string{"a", "c", "b", "d"},
		},
		{
			name:     "unregistered dependency is ignored",
			steps:    []*fakeStep{newFakeStep("summarize", "aggregate")},
			expected: []string{"summarize"},
		},
		{
			name:    "cycle",
			steps:   []*fakeStep{newFakeStep("a", "b"), newFakeStep("b", "a")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			for _, s := range tt.steps {
				require.NoError(t, r.Register(s))
			}

			ordered, err := r.GetDependencyOrder()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ids(ordered))
		})
	}
}

func TestRegistry_ValidateDependencies(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(newFakeStep("summarize", "aggregate")))
	assert.ErrorContains(t, r.ValidateDependencies(), "non-existent step aggregate")

	require.NoError(t, r.Register(newFakeStep("aggregate")))
	assert.NoError(t, r.ValidateDependencies())

	cyclic := NewRegistry()
	require.NoError(t, cyclic.Register(newFakeStep("a", "b")))
	require.NoError(t, cyclic.Register(newFakeStep("b", "a")))
	assert.ErrorContains(t, cyclic.ValidateDependencies(), "cycle")
}
