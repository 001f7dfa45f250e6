// Copyright (c) 2022 Runetale Inc & AUTHORS All rights reserved.
// Use of this source code is governed by a BSD 3-Clause License
// license that can be found in the LICENSE file.

package sockaddr

import "golang.org/x/sys/unix"

func setFamily(sa *unix.RawSockaddr, family uint16, _ uint32) {
	sa.Family = family
}

func getFamily(sa *unix.RawSockaddr) uint16 {
	return sa.Family
}
