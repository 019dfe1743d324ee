package currency

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/juju/errors"
)

// Amount is integer counting whole currency units, e.g. $87 = 87
type Amount uint32

const MaxAmount = Amount(math.MaxUint32)

func (self Amount) String() string { return "$" + strconv.FormatUint(uint64(self), 10) }

// Nominal is face value of one note
type Nominal Amount

const (
	Note20 Nominal = 20
	Note10 Nominal = 10
	Note5  Nominal = 5
	Note2  Nominal = 2
	Note1  Nominal = 1
)

// Denominations in descending face value.
// Change is made and balance is reported in this order.
var Denominations = [...]Nominal{Note20, Note10, Note5, Note2, Note1}

func (self Nominal) Valid() bool {
	for _, n := range Denominations {
		if n == self {
			return true
		}
	}
	return false
}

func (self Nominal) String() string { return strconv.FormatUint(uint64(self), 10) }

func ParseNominal(s string) (Nominal, error) {
	u, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, errors.NewNotValid(err, fmt.Sprintf("nominal=%s", s))
	}
	n := Nominal(u)
	if !n.Valid() {
		return 0, errors.Annotatef(ErrNominalInvalid, "nominal=%s", s)
	}
	return n, nil
}

var (
	ErrNominalInvalid = errors.New("Nominal is not valid for this group")
	ErrAmountOverflow = errors.New("Amount overflow")
)

// ErrInsufficientNotes means there are fewer notes of Nominal than required.
type ErrInsufficientNotes struct {
	Nominal   Nominal
	Demand    uint
	Available uint
}

func (self *ErrInsufficientNotes) Error() string {
	return fmt.Sprintf("short of %s note demand=%d available=%d", self.Nominal, self.Demand, self.Available)
}

// NominalGroup operates money comprised of multiple notes.
// note20: 1
// note5 : 3
// note1 : 4
// total : 39
// Zero value is a valid empty group.
type NominalGroup struct {
	values [len(Denominations)]uint
}

func NewGroup() *NominalGroup { return &NominalGroup{} }

// NewNotes creates group from counts in descending face value order.
func NewNotes(twenty, ten, five, two, one uint) *NominalGroup {
	return &NominalGroup{values: [len(Denominations)]uint{twenty, ten, five, two, one}}
}

func index(n Nominal) int {
	for i, d := range Denominations {
		if d == n {
			return i
		}
	}
	return -1
}

func (self *NominalGroup) Copy() *NominalGroup {
	ng2 := *self
	return &ng2
}

func (self *NominalGroup) Add(n Nominal, count uint) error {
	i := index(n)
	if i < 0 {
		return errors.Annotatef(ErrNominalInvalid, "Add(n=%d, c=%d)", n, count)
	}
	self.values[i] += count
	return nil
}

func (self *NominalGroup) MustAdd(n Nominal, count uint) {
	if err := self.Add(n, count); err != nil {
		panic(fmt.Sprintf("code error %s", errors.ErrorStack(err)))
	}
}

func (self *NominalGroup) AddFrom(source *NominalGroup) {
	for i, c := range source.values {
		self.values[i] += c
	}
}

// SubFrom removes source counts. Either all counts are subtracted or,
// when any would become negative, nothing changes.
func (self *NominalGroup) SubFrom(source *NominalGroup) error {
	for i, c := range source.values {
		if c > self.values[i] {
			return &ErrInsufficientNotes{Nominal: Denominations[i], Demand: c, Available: self.values[i]}
		}
	}
	for i, c := range source.values {
		self.values[i] -= c
	}
	return nil
}

func (self *NominalGroup) Clear() {
	self.values = [len(Denominations)]uint{}
}

func (self *NominalGroup) Get(n Nominal) (uint, error) {
	i := index(n)
	if i < 0 {
		return 0, ErrNominalInvalid
	}
	return self.values[i], nil
}

// Iter calls f for every denomination in descending face value, including zero counts.
func (self *NominalGroup) Iter(f func(nominal Nominal, count uint) error) error {
	for i, count := range self.values {
		if err := f(Denominations[i], count); err != nil {
			return err
		}
	}
	return nil
}

func (self *NominalGroup) Equal(other *NominalGroup) bool {
	return self.values == other.values
}

// TotalChecked returns face value of group or ErrAmountOverflow if it exceeds MaxAmount.
func (self *NominalGroup) TotalChecked() (Amount, error) {
	sum := uint64(0)
	for i, count := range self.values {
		// each count <= MaxAmount keeps sum of five products within uint64
		if uint64(count) > uint64(MaxAmount) {
			return 0, ErrAmountOverflow
		}
		sum += uint64(Denominations[i]) * uint64(count)
	}
	if sum > uint64(MaxAmount) {
		return 0, ErrAmountOverflow
	}
	return Amount(sum), nil
}

// Total is TotalChecked for groups known to fit, e.g. register inventory.
// Overflow is a code error, use TotalChecked for bundles from outside.
func (self *NominalGroup) Total() Amount {
	total, err := self.TotalChecked()
	if err != nil {
		panic(fmt.Sprintf("code error Total() group=%v err=%v", self.values, err))
	}
	return total
}

func (self *NominalGroup) String() string {
	parts := make([]string, 0, len(self.values)+1)
	for i, count := range self.values {
		if count > 0 {
			parts = append(parts, fmt.Sprintf("%s:%d", Denominations[i], count))
		}
	}
	if total, err := self.TotalChecked(); err == nil {
		parts = append(parts, fmt.Sprintf("total:%d", total))
	} else {
		parts = append(parts, "total:overflow")
	}
	return strings.Join(parts, ",")
}

// Decompose splits amount into notes largest first, as if inventory was unlimited.
func Decompose(amount Amount) *NominalGroup {
	ng := &NominalGroup{}
	for i, n := range Denominations {
		ng.values[i] = uint(amount / Amount(n))
		amount %= Amount(n)
	}
	return ng
}

// Withdraw computes notes for amount, largest first, using self as inventory.
// Fails on the first denomination that has fewer notes than greedy split demands,
// smaller notes are not tried instead.
// self is never modified. Result is added to `to` (may be nil) only on success.
func (self *NominalGroup) Withdraw(to *NominalGroup, amount Amount) error {
	need := Decompose(amount)
	for i, demand := range need.values {
		if demand > self.values[i] {
			return &ErrInsufficientNotes{Nominal: Denominations[i], Demand: demand, Available: self.values[i]}
		}
	}
	if to != nil {
		to.AddFrom(need)
	}
	return nil
}

// Contains reports whether Withdraw(amount) would succeed.
func (self *NominalGroup) Contains(amount Amount) bool {
	return self.Withdraw(nil, amount) == nil
}
