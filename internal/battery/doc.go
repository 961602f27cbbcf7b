// Package battery reports the host battery charge and follows its changes.
//
// The level is read from the sysfs power_supply class (capacity, or the
// energy/charge counters when capacity is missing) and exposed as a fraction
// of full. Live updates arrive as udev power_supply change events over a
// netlink socket; observers register through Subscribe and receive a cancel
// function that removes them again.
package battery
