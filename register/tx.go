package register

import (
	"github.com/temoto/till/currency"
)

// Tx applies inventory changes immediately and remembers how to undo them.
// Only valid inside Transact callback.
type Tx struct {
	r    *Register
	undo []func()
}

func (tx *Tx) Add(bundle *currency.NominalGroup) error {
	if err := tx.r.locked_add(bundle); err != nil {
		return err
	}
	b := bundle.Copy()
	tx.undo = append(tx.undo, func() {
		if err := tx.r.locked_remove(b); err != nil {
			panic("code error tx undo add: " + err.Error())
		}
	})
	return nil
}

func (tx *Tx) Remove(bundle *currency.NominalGroup) error {
	if err := tx.r.locked_remove(bundle); err != nil {
		return err
	}
	b := bundle.Copy()
	tx.undo = append(tx.undo, func() { tx.r.bank.AddFrom(b) })
	return nil
}

// Change computes notes for amount against inventory as modified so far.
func (tx *Tx) Change(amount currency.Amount) (*currency.NominalGroup, error) {
	return tx.r.locked_change(amount)
}

func (tx *Tx) rollback() {
	for i := len(tx.undo) - 1; i >= 0; i-- {
		tx.undo[i]()
	}
	tx.undo = nil
}

// Transact runs f with register locked. If f returns error or panics, all changes
// made through tx are reverted in reverse order. Error is returned as is, panic is repeated.
func (self *Register) Transact(f func(tx *Tx) error) (err error) {
	self.lk.Lock()
	defer self.lk.Unlock()

	touched := self.touched
	tx := &Tx{r: self}
	revert := func(reason interface{}) {
		tx.rollback()
		self.touched = touched
		self.Log.Debugf("register tx rollback reason=%v bank=%s", reason, self.bank.String())
	}
	defer func() {
		if p := recover(); p != nil {
			revert(p)
			panic(p)
		}
	}()
	if err = f(tx); err != nil {
		revert(err)
		return err
	}
	return nil
}
