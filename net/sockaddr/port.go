// Copyright (c) 2022 Runetale Inc & AUTHORS All rights reserved.
// Use of this source code is governed by a BSD 3-Clause License
// license that can be found in the LICENSE file.

package sockaddr

import (
	"encoding/binary"
	"fmt"
)

// Len returns the size of the sockaddr structure for a's family, or 0 with a
// warning when the family is not supported.
func (a Addr) Len() uint32 {
	switch a.family {
	case FamilyIPv4:
		return SizeofInet4
	case FamilyIPv6:
		return SizeofInet6
	default:
		warnUnknownFamily(a)
		return 0
	}
}

// Port returns the port in host byte order. It returns 0 with a warning when
// the family is not supported, which callers cannot tell apart from port 0;
// use PortOK when the difference matters.
func (a Addr) Port() uint16 {
	switch a.family {
	case FamilyIPv4, FamilyIPv6:
		return a.portValue()
	default:
		warnUnknownFamily(a)
		return 0
	}
}

// PortOK returns the port and whether a has a supported family.
func (a Addr) PortOK() (uint16, bool) {
	switch a.family {
	case FamilyIPv4, FamilyIPv6:
		return a.portValue(), true
	default:
		return 0, false
	}
}

// SetPort stores port in a. a is left untouched when its family is not
// supported.
func (a *Addr) SetPort(port uint16) error {
	switch a.family {
	case FamilyIPv4, FamilyIPv6:
		a.putPort(port)
		return nil
	default:
		warnUnknownFamily(*a)
		return fmt.Errorf("%w %d", ErrUnsupportedFamily, a.raw)
	}
}

func (a Addr) portValue() uint16 {
	return binary.BigEndian.Uint16(a.port[:])
}

func (a *Addr) putPort(port uint16) {
	binary.BigEndian.PutUint16(a.port[:], port)
}
