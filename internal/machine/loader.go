// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package machine

import (
	"encoding/binary"
	"io"
)

// LoadImage reads a raw big-endian LC-3 object image from r: the
// first word is the load origin, every word after it is copied into
// memory starting at that origin. Multiple images may be loaded into
// the same machine at distinct origins; a later image is free to
// overwrite an earlier one's memory.
//
// Unlike the classic C loader (which caps the read at UINT16_MAX -
// origin, stranding the last word of memory), this reads up to
// 1<<16 - origin words so an image can fill memory all the way to
// 0xFFFF.
func (mc *Machine) LoadImage(r io.Reader) error {
	var originBuf [2]byte
	if _, err := io.ReadFull(r, originBuf[:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil
		}
		return err
	}

	origin := binary.BigEndian.Uint16(originBuf[:])
	maxWords := int(1<<16) - int(origin)

	var wordBuf [2]byte
	for i := 0; i < maxWords; i++ {
		n, err := io.ReadFull(r, wordBuf[:])
		if n == 2 {
			mc.State.Memory[int(origin)+i] = binary.BigEndian.Uint16(wordBuf[:])
		}

		if err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return nil
			}
			return err
		}
	}

	return nil
}
