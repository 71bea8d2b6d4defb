package place

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartitionedRNG_SameSubsystemSameInstance(t *testing.T) {
	p := NewPartitionedRNG(NewSearchKey(7))
	assert.Same(t, p.ForSubsystem(SubsystemRefine), p.ForSubsystem(SubsystemRefine))
}

func TestPartitionedRNG_DeterministicAcrossInstances(t *testing.T) {
	a := NewPartitionedRNG(NewSearchKey(7)).ForSubsystem(SubsystemAnneal)
	b := NewPartitionedRNG(NewSearchKey(7)).ForSubsystem(SubsystemAnneal)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Int63(), b.Int63(), "draw %d", i)
	}
}

func TestPartitionedRNG_SubsystemsAreIsolated(t *testing.T) {
	p := NewPartitionedRNG(NewSearchKey(7))
	refine := p.ForSubsystem(SubsystemRefine)
	anneal := p.ForSubsystem(SubsystemAnneal)

	distinct := false
	for i := 0; i < 10; i++ {
		if refine.Int63() != anneal.Int63() {
			distinct = true
			break
		}
	}
	assert.True(t, distinct, "subsystem streams must not alias")
}

func TestPartitionedRNG_SeedsDiffer(t *testing.T) {
	a := NewPartitionedRNG(NewSearchKey(1)).ForSubsystem(SubsystemRefine)
	b := NewPartitionedRNG(NewSearchKey(2)).ForSubsystem(SubsystemRefine)

	distinct := false
	for i := 0; i < 10; i++ {
		if a.Int63() != b.Int63() {
			distinct = true
			break
		}
	}
	assert.True(t, distinct)
}

func TestPartitionedRNG_Key(t *testing.T) {
	p := NewPartitionedRNG(NewSearchKey(123))
	assert.Equal(t, NewSearchKey(123), p.Key())
}
