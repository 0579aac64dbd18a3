package common

import (
	"encoding/hex"
	"fmt"
	"strconv"
)

type Address [32]byte

func AddressFromString(src string) (Address, error) {
	var addr Address
	data, err := hex.DecodeString(src)
	if err != nil {
		return addr, err
	}
	if len(data) != len(addr) {
		return addr, fmt.Errorf("invalid address length %d", len(data))
	}
	copy(addr[:], data)
	return addr, nil
}

func (a Address) String() string {
	return hex.EncodeToString(a[:])
}

func (a Address) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(a.String())), nil
}

func (a *Address) UnmarshalJSON(b []byte) error {
	unquoted, err := strconv.Unquote(string(b))
	if err != nil {
		return err
	}
	addr, err := AddressFromString(unquoted)
	if err != nil {
		return err
	}
	*a = addr
	return nil
}
