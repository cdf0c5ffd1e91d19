package list

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sequenceConstructors lists every Sequence implementation; each test below runs against all of them.
var sequenceConstructors = []struct {
	name string
	new  func() Sequence[int]
}{
	{name: "linked", new: func() Sequence[int] { return New[int]() }},
	{name: "arena", new: func() Sequence[int] { return NewArenaList[int](0) }},
	{name: "zero_arena", new: func() Sequence[int] { return new(ArenaList[int]) }},
}

// collect returns the values of the sequence in order.
func collect(seq Sequence[int]) []int {
	values := make([]int, 0, seq.Size())
	for _, value := range seq.All() {
		values = append(values, value)
	}
	return values
}

// fillSequence inserts the given `values` in order into a fresh sequence.
func fillSequence(t *testing.T, newSeq func() Sequence[int], values ...int) Sequence[int] {
	t.Helper()
	seq := newSeq()
	for pos, value := range values {
		require.NoError(t, seq.Insert(value, pos))
	}
	return seq
}

func TestSequence_Scenarios(t *testing.T) {
	for _, constructor := range sequenceConstructors {
		t.Run(constructor.name, func(t *testing.T) {
			t.Run("insert_remove_find", func(t *testing.T) {
				seq := constructor.new()
				assert.Equal(t, 0, seq.Size())

				require.NoError(t, seq.Insert(10, 0)) // [10]
				require.NoError(t, seq.Insert(20, 1)) // [10, 20]
				require.NoError(t, seq.Insert(15, 1)) // [10, 15, 20]
				assert.Equal(t, 3, seq.Size())
				assert.Equal(t, []int{10, 15, 20}, collect(seq))
				got, err := seq.Get(1)
				assert.NoError(t, err)
				assert.Equal(t, 15, got)

				require.NoError(t, seq.Remove(1)) // [10, 20]
				assert.Equal(t, 2, seq.Size())
				assert.Equal(t, 1, seq.Find(20))
				assert.Equal(t, -1, seq.Find(15))
				assert.NoError(t, seq.Validate())
			})

			t.Run("empty", func(t *testing.T) {
				seq := constructor.new()
				assert.Equal(t, -1, seq.Find(42))
				assert.Equal(t, 0, seq.Size())
				assert.Equal(t, "[]", seq.String())
				assert.NoError(t, seq.Validate())
			})

			t.Run("single_element_round_trip", func(t *testing.T) {
				seq := constructor.new()
				require.NoError(t, seq.Insert(42, 0))
				require.NoError(t, seq.Remove(0))
				assert.Equal(t, 0, seq.Size())
				_, err := seq.Get(0)
				assert.ErrorIs(t, err, ErrOutOfRange)
				assert.NoError(t, seq.Validate())
			})
		})
	}
}

func TestSequence_Boundaries(t *testing.T) {
	for _, constructor := range sequenceConstructors {
		t.Run(constructor.name, func(t *testing.T) {
			seq := fillSequence(t, constructor.new, 1, 2, 3)
			size := seq.Size()

			_, err := seq.Get(size)
			assert.ErrorIs(t, err, ErrOutOfRange)
			assert.ErrorIs(t, seq.Remove(size), ErrOutOfRange)
			assert.ErrorIs(t, seq.Insert(9, size+1), ErrOutOfRange)

			_, err = seq.Get(-1)
			assert.ErrorIs(t, err, ErrOutOfRange)
			assert.ErrorIs(t, seq.Remove(-1), ErrOutOfRange)
			assert.ErrorIs(t, seq.Insert(9, -1), ErrOutOfRange)

			// Failed calls leave the sequence untouched.
			assert.Equal(t, []int{1, 2, 3}, collect(seq))

			assert.NoError(t, seq.Insert(4, size), "Inserting at Size() appends")
			assert.Equal(t, []int{1, 2, 3, 4}, collect(seq))
		})
	}
}

func TestSequence_OutOfRangeMessage(t *testing.T) {
	seq := New[int]()
	err := seq.Remove(3)
	require.ErrorIs(t, err, ErrOutOfRange)
	assert.EqualError(t, err, "position out of range: remove at position 3 on a list of size 0")
}

func TestSequence_FindReturnsFirstMatch(t *testing.T) {
	for _, constructor := range sequenceConstructors {
		t.Run(constructor.name, func(t *testing.T) {
			seq := fillSequence(t, constructor.new, 5, 7, 5, 7, 9)
			assert.Equal(t, 0, seq.Find(5))
			assert.Equal(t, 1, seq.Find(7))
			assert.Equal(t, 4, seq.Find(9))
			assert.Equal(t, -1, seq.Find(6))
		})
	}
}

func TestSequence_InsertThenRemoveRestores(t *testing.T) {
	for _, constructor := range sequenceConstructors {
		t.Run(constructor.name, func(t *testing.T) {
			initial := []int{1, 2, 3, 4, 5, 6}
			seq := fillSequence(t, constructor.new, initial...)
			for pos := 0; pos <= len(initial); pos++ {
				require.NoError(t, seq.Insert(100, pos))
				got, err := seq.Get(pos)
				require.NoError(t, err)
				assert.Equal(t, 100, got, "Get(%d) right after Insert(x, %d)", pos, pos)
				assert.Equal(t, len(initial)+1, seq.Size())

				require.NoError(t, seq.Remove(pos))
				assert.Equal(t, initial, collect(seq))
				assert.NoError(t, seq.Validate())
			}
		})
	}
}

// TestSequence_MatchesSliceModel applies random operations to each sequence and to a plain slice, and compares them
// after every step.
func TestSequence_MatchesSliceModel(t *testing.T) {
	for _, constructor := range sequenceConstructors {
		t.Run(constructor.name, func(t *testing.T) {
			rnd := rand.New(rand.NewSource(42))
			seq := constructor.new()
			var model []int
			const steps = 2000
			for step := range steps {
				// Positions go one past the valid range so failures are exercised as well.
				switch op := rnd.Intn(10); {
				case op < 5: // Insert.
					pos, value := rnd.Intn(len(model)+2), rnd.Intn(50)
					err := seq.Insert(value, pos)
					if pos > len(model) {
						require.ErrorIs(t, err, ErrOutOfRange, "step %d", step)
					} else {
						require.NoError(t, err, "step %d", step)
						model = slices.Insert(model, pos, value)
					}
				case op < 8: // Remove.
					pos := rnd.Intn(len(model) + 1)
					err := seq.Remove(pos)
					if pos >= len(model) {
						require.ErrorIs(t, err, ErrOutOfRange, "step %d", step)
					} else {
						require.NoError(t, err, "step %d", step)
						model = slices.Delete(model, pos, pos+1)
					}
				case op < 9: // Get.
					pos := rnd.Intn(len(model) + 1)
					got, err := seq.Get(pos)
					if pos >= len(model) {
						require.ErrorIs(t, err, ErrOutOfRange, "step %d", step)
					} else {
						require.NoError(t, err, "step %d", step)
						require.Equal(t, model[pos], got, "step %d", step)
					}
				default: // Find.
					value := rnd.Intn(50)
					require.Equal(t, slices.Index(model, value), seq.Find(value), "step %d", step)
				}
				require.Equal(t, len(model), seq.Size(), "step %d", step)
				require.NoError(t, seq.Validate(), "step %d", step)
			}
			if len(model) == 0 {
				model = []int{} // collect never returns nil.
			}
			assert.Equal(t, model, collect(seq))
		})
	}
}
