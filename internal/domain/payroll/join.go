package payroll

import "github.com/pkg/errors"

// Keyed is implemented by every record that takes part in the join.
type Keyed interface {
	Key() Key
}

// Cursor yields records one at a time. ok is false once the source is
// exhausted.
type Cursor[T Keyed] interface {
	Next() (record T, ok bool, err error)
}

// Sources bundles the three inputs of a register computation.
type Sources struct {
	Payroll  Cursor[PayrollRecord]
	Time     Cursor[TimeRecord]
	Benefits Cursor[BenefitsRecord]
}

// Joiner matches the three sources on Key and computes one row per key found
// in all of them.
type Joiner interface {
	Join(src Sources) ([]RegisterRow, error)
}

func NewJoiner(strategy string) (Joiner, error) {
	switch strategy {
	case "", StrategyHash:
		return HashJoiner{}, nil
	case StrategyMerge:
		return MergeJoiner{}, nil
	default:
		return nil, errors.Wrapf(ErrUnknownStrategy, "%q", strategy)
	}
}

// Tables holds fully materialized inputs keyed by Key.
type Tables struct {
	Payroll  map[Key]PayrollRecord
	Time     map[Key]TimeRecord
	Benefits map[Key]BenefitsRecord
}

func (t Tables) Compute() []RegisterRow {
	return ComputeRegister(t.Payroll, t.Time, t.Benefits)
}

// HashJoiner loads every source into a map before probing. Input order does
// not matter; on duplicate keys the last record wins.
type HashJoiner struct{}

func (HashJoiner) Load(src Sources) (Tables, error) {
	payroll, err := collect(src.Payroll)
	if err != nil {
		return Tables{}, err
	}
	times, err := collect(src.Time)
	if err != nil {
		return Tables{}, err
	}
	benefits, err := collect(src.Benefits)
	if err != nil {
		return Tables{}, err
	}
	return Tables{Payroll: payroll, Time: times, Benefits: benefits}, nil
}

func (j HashJoiner) Join(src Sources) ([]RegisterRow, error) {
	tables, err := j.Load(src)
	if err != nil {
		return nil, err
	}
	return tables.Compute(), nil
}

func collect[T Keyed](c Cursor[T]) (map[Key]T, error) {
	out := make(map[Key]T)
	for {
		record, ok, err := c.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		out[record.Key()] = record
	}
}

// MergeJoiner walks three sources sorted by Key in a single pass. Adjacent
// duplicates collapse to the last record, matching HashJoiner. A key that
// sorts before its predecessor fails with ErrUnsortedInput.
type MergeJoiner struct{}

func (MergeJoiner) Join(src Sources) ([]RegisterRow, error) {
	payroll := newOrderedCursor("payroll", src.Payroll)
	times := newOrderedCursor("time", src.Time)
	benefits := newOrderedCursor("benefits", src.Benefits)

	pay, okPay, err := payroll.next()
	if err != nil {
		return nil, err
	}
	hours, okTime, err := times.next()
	if err != nil {
		return nil, err
	}
	benefit, okBenefits, err := benefits.next()
	if err != nil {
		return nil, err
	}

	rows := []RegisterRow{}
	for okPay && okTime && okBenefits {
		payKey, timeKey, benefitsKey := pay.Key(), hours.Key(), benefit.Key()
		if payKey == timeKey && payKey == benefitsKey {
			rows = append(rows, ComputeRow(pay, hours, benefit))
			if pay, okPay, err = payroll.next(); err != nil {
				return nil, err
			}
			if hours, okTime, err = times.next(); err != nil {
				return nil, err
			}
			if benefit, okBenefits, err = benefits.next(); err != nil {
				return nil, err
			}
			continue
		}

		smallest := payKey
		if timeKey.Compare(smallest) < 0 {
			smallest = timeKey
		}
		if benefitsKey.Compare(smallest) < 0 {
			smallest = benefitsKey
		}
		if payKey == smallest {
			if pay, okPay, err = payroll.next(); err != nil {
				return nil, err
			}
		}
		if timeKey == smallest {
			if hours, okTime, err = times.next(); err != nil {
				return nil, err
			}
		}
		if benefitsKey == smallest {
			if benefit, okBenefits, err = benefits.next(); err != nil {
				return nil, err
			}
		}
	}
	return rows, nil
}

// orderedCursor reads one record ahead so it can fold duplicates and check
// that keys never go backwards.
type orderedCursor[T Keyed] struct {
	name       string
	src        Cursor[T]
	pending    T
	hasPending bool
	done       bool
}

func newOrderedCursor[T Keyed](name string, src Cursor[T]) *orderedCursor[T] {
	return &orderedCursor[T]{name: name, src: src}
}

func (c *orderedCursor[T]) next() (T, bool, error) {
	var zero T
	if !c.hasPending {
		if c.done {
			return zero, false, nil
		}
		record, ok, err := c.src.Next()
		if err != nil {
			return zero, false, err
		}
		if !ok {
			c.done = true
			return zero, false, nil
		}
		c.pending, c.hasPending = record, true
	}

	current := c.pending
	c.hasPending = false
	for !c.done {
		record, ok, err := c.src.Next()
		if err != nil {
			return zero, false, err
		}
		if !ok {
			c.done = true
			break
		}
		if record.Key() == current.Key() {
			current = record
			continue
		}
		if record.Key().Compare(current.Key()) < 0 {
			return zero, false, unsortedError(c.name, current.Key(), record.Key())
		}
		c.pending, c.hasPending = record, true
		break
	}
	return current, true, nil
}

// SliceCursor serves records from memory.
type SliceCursor[T Keyed] struct {
	items []T
	pos   int
}

func NewSliceCursor[T Keyed](items []T) *SliceCursor[T] {
	return &SliceCursor[T]{items: items}
}

func (c *SliceCursor[T]) Next() (T, bool, error) {
	if c.pos >= len(c.items) {
		var zero T
		return zero, false, nil
	}
	item := c.items[c.pos]
	c.pos++
	return item, true, nil
}

// SliceSources wraps in-memory records as Sources.
func SliceSources(payroll []PayrollRecord, times []TimeRecord, benefits []BenefitsRecord) Sources {
	return Sources{
		Payroll:  NewSliceCursor(payroll),
		Time:     NewSliceCursor(times),
		Benefits: NewSliceCursor(benefits),
	}
}
