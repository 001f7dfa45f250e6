// Copyright (c) 2022 Runetale Inc & AUTHORS All rights reserved.
// Use of this source code is governed by a BSD 3-Clause License
// license that can be found in the LICENSE file.

package sockaddr

// Equal reports whether a and b have the same family and address bytes, and
// the same port when comparePorts is set. Scope ids are not compared, and
// addresses of unknown family are never equal.
func Equal(a, b Addr, comparePorts bool) bool {
	if a.family != b.family {
		return false
	}

	switch a.family {
	case FamilyIPv4:
		if a.ip4 != b.ip4 {
			return false
		}
	case FamilyIPv6:
		if a.ip6 != b.ip6 {
			return false
		}
	default:
		return false
	}

	return !comparePorts || a.port == b.port
}
