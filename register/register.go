// Package register keeps till note inventory and processes payments.
// Overview:
// - AddCash/RemoveCash change inventory directly (float, cash pickup)
// - ProcessPayment accepts tendered notes, returns change from inventory
//   as one transaction: on any error inventory is left exactly as before
// - DisplayBalance reports counts in descending face value
//
// All methods are safe for concurrent use.
package register

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/juju/errors"
	"github.com/temoto/till/currency"
	"github.com/temoto/till/log2"
)

var ErrUnderpaid = errors.New("Billing amount is greater than total paid amount")

// PaymentError is returned by ProcessPayment for rejected transaction.
// Err is ErrUnderpaid, currency.ErrAmountOverflow or *currency.ErrInsufficientNotes.
type PaymentError struct {
	Billed   currency.Amount
	// 0 when tendered total overflows
	Tendered currency.Amount
	Err      error
}

func (self *PaymentError) Error() string {
	return fmt.Sprintf("payment failed billed=%s tendered=%s: %v", self.Billed, self.Tendered, self.Err)
}
func (self *PaymentError) Unwrap() error { return self.Err }

type Register struct {
	Log *log2.Log

	lk   sync.Mutex
	bank currency.NominalGroup
	// denominations appear in balance report only after first add
	touched bool
}

func New(log *log2.Log) *Register {
	return &Register{Log: log}
}

// AddCash fails without any change if bundle is nil or register total
// would exceed currency.MaxAmount.
func (self *Register) AddCash(bundle *currency.NominalGroup) error {
	self.lk.Lock()
	defer self.lk.Unlock()
	return self.locked_add(bundle)
}

// RemoveCash fails without any change if bundle is nil or register holds fewer notes than bundle.
func (self *Register) RemoveCash(bundle *currency.NominalGroup) error {
	self.lk.Lock()
	defer self.lk.Unlock()
	return self.locked_remove(bundle)
}

// CalculateTotalCash returns face value of bundle.
func (self *Register) CalculateTotalCash(bundle *currency.NominalGroup) (currency.Amount, error) {
	if bundle == nil {
		return 0, errors.NotValidf("bundle=nil")
	}
	return bundle.TotalChecked()
}

// GenerateChange splits amount into notes largest first, checked against
// current inventory. Inventory is not modified.
func (self *Register) GenerateChange(amount currency.Amount) (*currency.NominalGroup, error) {
	self.lk.Lock()
	defer self.lk.Unlock()
	return self.locked_change(amount)
}

// ProcessPayment adds tendered notes to inventory, then takes change for
// tendered-billed out of it. Tendered notes may be returned as change.
// On error inventory is restored and *PaymentError is returned,
// nil tendered is NotValid error.
func (self *Register) ProcessPayment(billed currency.Amount, tendered *currency.NominalGroup) (*currency.NominalGroup, error) {
	const tag = "register.payment"
	if tendered == nil {
		return nil, errors.NotValidf("%s tendered=nil", tag)
	}
	total, err := tendered.TotalChecked()
	if err != nil {
		perr := &PaymentError{Billed: billed, Err: err}
		self.Log.Errorf("%s tendered=%s %v", tag, tendered.String(), perr)
		return nil, perr
	}
	var change *currency.NominalGroup
	err = self.Transact(func(tx *Tx) error {
		if err := tx.Add(tendered); err != nil {
			return err
		}
		if total < billed {
			return ErrUnderpaid
		}
		var err error
		if change, err = tx.Change(total - billed); err != nil {
			return err
		}
		return tx.Remove(change)
	})
	if err != nil {
		perr := &PaymentError{Billed: billed, Tendered: total, Err: err}
		self.Log.Errorf("%s %v", tag, perr)
		return nil, perr
	}
	self.Log.Infof("%s billed=%s tendered=%s change=%s", tag, billed, tendered.String(), change.String())
	return change, nil
}

// NoteCount returns number of n notes in inventory, 0 for unknown nominal.
func (self *Register) NoteCount(n currency.Nominal) uint {
	self.lk.Lock()
	defer self.lk.Unlock()
	c, _ := self.bank.Get(n)
	return c
}

// Balance returns copy of inventory.
func (self *Register) Balance() *currency.NominalGroup {
	self.lk.Lock()
	defer self.lk.Unlock()
	return self.bank.Copy()
}

func (self *Register) TotalBalance() currency.Amount {
	self.lk.Lock()
	defer self.lk.Unlock()
	return self.bank.Total()
}

// DisplayBalance writes one line per denomination, then total:
// $20: 10
// ...
// Total Balance Amount: $180
func (self *Register) DisplayBalance(w io.Writer) error {
	self.lk.Lock()
	bank := self.bank
	touched := self.touched
	self.lk.Unlock()

	if touched {
		err := bank.Iter(func(n currency.Nominal, count uint) error {
			_, err := fmt.Fprintf(w, "$%s: %d\n", n, count)
			return err
		})
		if err != nil {
			return errors.Annotate(err, "display balance")
		}
	}
	_, err := fmt.Fprintf(w, "Total Balance Amount: %s\n", bank.Total())
	return errors.Annotate(err, "display balance")
}

func (self *Register) PrintBalance() error { return self.DisplayBalance(os.Stdout) }

// Inventory total always fits currency.Amount, so bank.Total() is safe.
func (self *Register) locked_add(bundle *currency.NominalGroup) error {
	if bundle == nil {
		return errors.NotValidf("bundle=nil")
	}
	if _, err := bundle.TotalChecked(); err != nil {
		return err
	}
	next := self.bank
	next.AddFrom(bundle)
	if _, err := next.TotalChecked(); err != nil {
		return err
	}
	self.bank = next
	self.touched = true
	self.Log.Debugf("register add=%s bank=%s", bundle.String(), self.bank.String())
	return nil
}

func (self *Register) locked_remove(bundle *currency.NominalGroup) error {
	if bundle == nil {
		return errors.NotValidf("bundle=nil")
	}
	if err := self.bank.SubFrom(bundle); err != nil {
		return err
	}
	self.Log.Debugf("register remove=%s bank=%s", bundle.String(), self.bank.String())
	return nil
}

func (self *Register) locked_change(amount currency.Amount) (*currency.NominalGroup, error) {
	change := currency.NewGroup()
	if err := self.bank.Withdraw(change, amount); err != nil {
		return nil, err
	}
	return change, nil
}
