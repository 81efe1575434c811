package gnucash

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// AccountIndex is an in-memory view of the account tree of one book,
// supporting full-name rendering, case-insensitive lookup and recursive
// balance computation. It is built per call and never outlives the book
// snapshot it was loaded from.
type AccountIndex struct {
	byGUID   map[string]*Account
	children map[string][]*Account
	rootGUID string
}

// NewAccountIndex builds an index over the given account rows. When several
// roots exist (GnuCash keeps a separate template root for scheduled
// transactions) the one named "Root Account" wins.
func NewAccountIndex(accounts []Account) *AccountIndex {
	ix := &AccountIndex{
		byGUID:   make(map[string]*Account, len(accounts)),
		children: make(map[string][]*Account),
	}
	for i := range accounts {
		a := &accounts[i]
		ix.byGUID[a.GUID] = a
		if a.ParentGUID != nil {
			ix.children[*a.ParentGUID] = append(ix.children[*a.ParentGUID], a)
		}
		if a.IsRoot() && (ix.rootGUID == "" || a.Name == RootAccountName) {
			ix.rootGUID = a.GUID
		}
	}
	for _, kids := range ix.children {
		sort.Slice(kids, func(i, j int) bool { return kids[i].Name < kids[j].Name })
	}
	return ix
}

// FullName returns the colon-separated path of the account from the root,
// root excluded, e.g. "Assets:Cash". The root itself has no full name.
func (ix *AccountIndex) FullName(guid string) string {
	var parts []string
	for a := ix.byGUID[guid]; a != nil && !a.IsRoot(); {
		parts = append(parts, a.Name)
		if a.ParentGUID == nil {
			break
		}
		a = ix.byGUID[*a.ParentGUID]
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, ":")
}

// Listed returns the accounts under the primary root, roots excluded, in no
// particular order.
func (ix *AccountIndex) Listed() []*Account {
	var out []*Account
	var walk func(guid string)
	walk = func(guid string) {
		for _, child := range ix.children[guid] {
			out = append(out, child)
			walk(child.GUID)
		}
	}
	if ix.rootGUID != "" {
		walk(ix.rootGUID)
	}
	return out
}

// FullNames returns the full names of all listed accounts, sorted
// lexicographically.
func (ix *AccountIndex) FullNames() []string {
	listed := ix.Listed()
	names := make([]string, 0, len(listed))
	for _, a := range listed {
		names = append(names, ix.FullName(a.GUID))
	}
	sort.Strings(names)
	return names
}

// FindByFullName resolves a full account name to an account,
// case-insensitively. Returns nil when no account matches.
func (ix *AccountIndex) FindByFullName(name string) *Account {
	want := strings.ToLower(name)
	for _, a := range ix.Listed() {
		if strings.ToLower(ix.FullName(a.GUID)) == want {
			return a
		}
	}
	return nil
}

// Balance computes the account's balance: the sum of the split values of the
// account and all its descendants, with the natural display sign of the
// account's type applied. sums maps account GUID to the summed split values
// of that account alone.
func (ix *AccountIndex) Balance(guid string, sums map[string]decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	var walk func(guid string)
	walk = func(guid string) {
		total = total.Add(sums[guid])
		for _, child := range ix.children[guid] {
			walk(child.GUID)
		}
	}
	walk(guid)
	if a := ix.byGUID[guid]; a != nil && a.Sign() < 0 {
		total = total.Neg()
	}
	return total
}

// SplitSums folds split values into a per-account sum map suitable for
// Balance.
func SplitSums(splits []Split) map[string]decimal.Decimal {
	sums := make(map[string]decimal.Decimal)
	for i := range splits {
		s := &splits[i]
		sums[s.AccountGUID] = sums[s.AccountGUID].Add(s.Value())
	}
	return sums
}
