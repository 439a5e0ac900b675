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

import "fmt"

// trap dispatches on the eight-bit trap vector in bits 7..0 of a TRAP
// instruction. Only the six vectors below are defined; any other
// vector is a no-op, not a fault, per the ISA's service-table model.
//
// R7 is not saved on TRAP entry here. Real LC-3 hardware does, so a
// guest program that RETs out of a TRAP service would misbehave; this
// matches the source this machine is built from, which never saves
// it either.
func (mc *Machine) trap(vector uint16) error {
	switch vector {
	case TrapGetc:
		return mc.trapGetc()
	case TrapOut:
		return mc.trapOut()
	case TrapPuts:
		return mc.trapPuts()
	case TrapIn:
		return mc.trapIn()
	case TrapPutsp:
		return mc.trapPutsp()
	case TrapHalt:
		return mc.trapHalt()
	default:
		return nil
	}
}

func (mc *Machine) trapGetc() error {
	c, err := mc.readChar()
	if err != nil {
		return err
	}

	mc.State.Registers[R0] = uint16(c)
	return nil
}

func (mc *Machine) trapOut() error {
	c := byte(mc.State.Registers[R0] & 0xFF)

	if mc.Devices == nil || mc.Devices.Display == nil {
		return nil
	}

	if err := mc.Devices.Display.WriteByte(c); err != nil {
		return fmt.Errorf("trap OUT: %w", err)
	}

	return mc.Devices.Display.Flush()
}

func (mc *Machine) trapPuts() error {
	addr := mc.State.Registers[R0]

	for {
		value := mc.State.Memory[addr]
		if value == 0 {
			break
		}

		if mc.Devices != nil && mc.Devices.Display != nil {
			if err := mc.Devices.Display.WriteByte(byte(value & 0xFF)); err != nil {
				return fmt.Errorf("trap PUTS: %w", err)
			}
		}

		addr++
	}

	if mc.Devices != nil && mc.Devices.Display != nil {
		return mc.Devices.Display.Flush()
	}

	return nil
}

func (mc *Machine) trapIn() error {
	if mc.Devices != nil && mc.Devices.Display != nil {
		if _, err := mc.Devices.Display.WriteString("Enter a character: "); err != nil {
			return fmt.Errorf("trap IN: %w", err)
		}
		if err := mc.Devices.Display.Flush(); err != nil {
			return err
		}
	}

	c, err := mc.readChar()
	if err != nil {
		return err
	}

	if mc.Devices != nil && mc.Devices.Display != nil {
		if err := mc.Devices.Display.WriteByte(c); err != nil {
			return fmt.Errorf("trap IN: %w", err)
		}
		if err := mc.Devices.Display.Flush(); err != nil {
			return err
		}
	}

	mc.State.Registers[R0] = uint16(c)
	return nil
}

func (mc *Machine) trapPutsp() error {
	addr := mc.State.Registers[R0]

	for {
		value := mc.State.Memory[addr]
		if value == 0 {
			break
		}

		if mc.Devices != nil && mc.Devices.Display != nil {
			lo := byte(value & 0xFF)
			if err := mc.Devices.Display.WriteByte(lo); err != nil {
				return fmt.Errorf("trap PUTSP: %w", err)
			}

			if hi := byte(value >> 8); hi != 0 {
				if err := mc.Devices.Display.WriteByte(hi); err != nil {
					return fmt.Errorf("trap PUTSP: %w", err)
				}
			}
		}

		addr++
	}

	if mc.Devices != nil && mc.Devices.Display != nil {
		return mc.Devices.Display.Flush()
	}

	return nil
}

func (mc *Machine) trapHalt() error {
	if mc.Devices != nil && mc.Devices.Display != nil {
		if _, err := mc.Devices.Display.WriteString("HALT\n"); err != nil {
			return fmt.Errorf("trap HALT: %w", err)
		}
		if err := mc.Devices.Display.Flush(); err != nil {
			return err
		}
	}

	mc.State.Running = false
	return nil
}

// readChar performs the blocking keyboard read GETC and IN need. EOF
// on the underlying stream yields a zero character rather than an
// error, matching a narrowed getchar() returning -1 on EOF.
func (mc *Machine) readChar() (byte, error) {
	if mc.Devices == nil || mc.Devices.Keyboard == nil {
		return 0, nil
	}

	c, err := mc.Devices.Keyboard.ReadByte()
	if err != nil {
		return 0, nil
	}

	return c, nil
}
