package addr

import (
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// Normalize validates hex account address and returns it in lower case.
func Normalize(a string) (string, error) {
	a = strings.TrimSpace(a)
	if !common.IsHexAddress(a) {
		return "", errors.Errorf("wrong address format '%s'", a)
	}
	return strings.ToLower(common.HexToAddress(a).Hex()), nil
}

// Set is an immutable set of normalized account addresses.
// It is safe for concurrent use as it is never modified after creation.
type Set struct {
	m map[string]struct{}
}

func NewSet(addresses []string) (*Set, error) {
	s := &Set{m: make(map[string]struct{}, len(addresses))}
	for _, a := range addresses {
		n, err := Normalize(a)
		if err != nil {
			return nil, err
		}
		s.m[n] = struct{}{}
	}
	if len(s.m) == 0 {
		return nil, errors.New("empty address set")
	}
	return s, nil
}

// ParseSet parses comma separated list of addresses.
func ParseSet(list string) (*Set, error) {
	var addresses []string
	for _, a := range strings.Split(list, ",") {
		if strings.TrimSpace(a) == "" {
			continue
		}
		addresses = append(addresses, a)
	}
	return NewSet(addresses)
}

// Contains reports whether the address is in the set, ignoring letter case.
func (s *Set) Contains(a string) bool {
	if s == nil || a == "" {
		return false
	}
	_, ok := s.m[strings.ToLower(a)]
	return ok
}

// ContainsPtr treats nil address (contract creation) as not monitored.
func (s *Set) ContainsPtr(a *string) bool {
	if a == nil {
		return false
	}
	return s.Contains(*a)
}

func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.m)
}

// Slice returns sorted addresses.
func (s *Set) Slice() []string {
	ret := make([]string, 0, s.Len())
	if s == nil {
		return ret
	}
	for a := range s.m {
		ret = append(ret, a)
	}
	sort.Strings(ret)
	return ret
}
