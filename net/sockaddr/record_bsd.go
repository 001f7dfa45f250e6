// Copyright (c) 2022 Runetale Inc & AUTHORS All rights reserved.
// Use of this source code is governed by a BSD 3-Clause License
// license that can be found in the LICENSE file.

//go:build darwin || freebsd || netbsd || openbsd || dragonfly

package sockaddr

import "golang.org/x/sys/unix"

// BSD sockaddrs start with a length byte followed by a one-byte family.
func setFamily(sa *unix.RawSockaddr, family uint16, length uint32) {
	sa.Len = uint8(length)
	sa.Family = uint8(family)
}

func getFamily(sa *unix.RawSockaddr) uint16 {
	return uint16(sa.Family)
}
