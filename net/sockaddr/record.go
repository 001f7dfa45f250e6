// Copyright (c) 2022 Runetale Inc & AUTHORS All rights reserved.
// Use of this source code is governed by a BSD 3-Clause License
// license that can be found in the LICENSE file.

//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package sockaddr

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// SizeofStorage is the capacity of a Record.
const SizeofStorage = unix.SizeofSockaddrAny

var (
	_ [SizeofInet4 - unix.SizeofSockaddrInet4]struct{}
	_ [unix.SizeofSockaddrInet4 - SizeofInet4]struct{}
	_ [SizeofInet6 - unix.SizeofSockaddrInet6]struct{}
	_ [unix.SizeofSockaddrInet6 - SizeofInet6]struct{}
)

// Record is an encoded sockaddr and the number of valid bytes in it.
type Record struct {
	Raw unix.RawSockaddrAny
	Len uint32
}

// RecordOf encodes a. An address of unknown family yields a record holding
// only the family number, with Len 0.
func RecordOf(a Addr) Record {
	var r Record
	switch a.family {
	case FamilyIPv4:
		setFamily(&r.Raw.Addr, unix.AF_INET, SizeofInet4)
		sa := (*unix.RawSockaddrInet4)(unsafe.Pointer(&r.Raw))
		*(*[2]byte)(unsafe.Pointer(&sa.Port)) = a.port
		sa.Addr = a.ip4
		r.Len = SizeofInet4
	case FamilyIPv6:
		setFamily(&r.Raw.Addr, unix.AF_INET6, SizeofInet6)
		sa := (*unix.RawSockaddrInet6)(unsafe.Pointer(&r.Raw))
		*(*[2]byte)(unsafe.Pointer(&sa.Port)) = a.port
		sa.Addr = a.ip6
		sa.Scope_id = a.scopeID
		r.Len = SizeofInet6
	default:
		setFamily(&r.Raw.Addr, a.raw, 0)
	}
	return r
}

// Family returns the family stored in the record header.
func (r *Record) Family() Family {
	switch getFamily(&r.Raw.Addr) {
	case unix.AF_INET:
		return FamilyIPv4
	case unix.AF_INET6:
		return FamilyIPv6
	default:
		return FamilyUnknown
	}
}

// Addr decodes r. Len must equal the structure size of the recorded family.
// For an unsupported family the returned Addr carries the family number and
// the error wraps ErrUnsupportedFamily.
func (r *Record) Addr() (Addr, error) {
	family := getFamily(&r.Raw.Addr)
	switch family {
	case unix.AF_INET:
		if r.Len != SizeofInet4 {
			return Addr{}, fmt.Errorf("%w: ipv4 record of %d bytes", ErrRecordLength, r.Len)
		}
		sa := (*unix.RawSockaddrInet4)(unsafe.Pointer(&r.Raw))
		return Addr{
			family: FamilyIPv4,
			ip4:    sa.Addr,
			port:   *(*[2]byte)(unsafe.Pointer(&sa.Port)),
		}, nil
	case unix.AF_INET6:
		if r.Len != SizeofInet6 {
			return Addr{}, fmt.Errorf("%w: ipv6 record of %d bytes", ErrRecordLength, r.Len)
		}
		sa := (*unix.RawSockaddrInet6)(unsafe.Pointer(&r.Raw))
		return Addr{
			family:  FamilyIPv6,
			ip6:     sa.Addr,
			port:    *(*[2]byte)(unsafe.Pointer(&sa.Port)),
			scopeID: sa.Scope_id,
		}, nil
	default:
		return Unknown(family), fmt.Errorf("%w %d", ErrUnsupportedFamily, family)
	}
}

// Bytes returns the Len valid bytes of the record. The slice aliases r.
func (r *Record) Bytes() []byte {
	n := r.Len
	if n > SizeofStorage {
		n = SizeofStorage
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&r.Raw)), n)
}

// Unmap is Addr.Unmap on the encoded form; on success the record is
// re-encoded from zero and Len becomes SizeofInet4.
func (r *Record) Unmap() bool {
	a, err := r.Addr()
	if err != nil || !a.Unmap() {
		return false
	}
	*r = RecordOf(a)
	return true
}

// Map is Addr.Map on the encoded form; on success the record is re-encoded
// from zero and Len becomes SizeofInet6.
func (r *Record) Map() bool {
	a, err := r.Addr()
	if err != nil || !a.Map() {
		return false
	}
	*r = RecordOf(a)
	return true
}
