// Package composite provides a custom USB composite device descriptor
// that combines CDC (Serial) + HID (Mouse + Keyboard + Joystick)
package composite

import (
	"machine/usb"
	"machine/usb/descriptor"
)

// CompositeHIDReportDescriptor combines all HID device reports using
// Report IDs. The mouse and keyboard IDs match what the TinyGo hid
// ports emit; the joystick collection is ours.
var CompositeHIDReportDescriptor = descriptor.Append([][]byte{
	// ===================================================================
	// REPORT ID 1: MOUSE (5 bytes total: 1 ID + 1 buttons + 3 axes)
	// ===================================================================
	descriptor.HIDUsagePageGenericDesktop,
	descriptor.HIDUsageDesktopMouse,
	descriptor.HIDCollectionApplication,
	descriptor.HIDUsageDesktopPointer,
	descriptor.HIDCollectionPhysical,
	descriptor.HIDReportID(1),
	// Buttons (5 buttons, 1 bit each + 3 bits padding)
	descriptor.HIDUsagePageButton,
	descriptor.HIDUsageMinimum(1),
	descriptor.HIDUsageMaximum(5),
	descriptor.HIDLogicalMinimum(0),
	descriptor.HIDLogicalMaximum(1),
	descriptor.HIDReportCount(5),
	descriptor.HIDReportSize(1),
	descriptor.HIDInputDataVarAbs,
	descriptor.HIDReportCount(1),
	descriptor.HIDReportSize(3),
	descriptor.HIDInputConstVarAbs,
	// Axes (X, Y, Wheel)
	descriptor.HIDUsagePageGenericDesktop,
	descriptor.HIDUsageDesktopX,
	descriptor.HIDUsageDesktopY,
	descriptor.HIDUsageDesktopWheel,
	descriptor.HIDLogicalMinimum(-127),
	descriptor.HIDLogicalMaximum(127),
	descriptor.HIDReportSize(8),
	descriptor.HIDReportCount(3),
	descriptor.HIDInputDataVarRel,
	descriptor.HIDCollectionEnd,
	descriptor.HIDCollectionEnd,

	// ===================================================================
	// REPORT ID 2: KEYBOARD (9 bytes total: 1 ID + 8 data)
	// ===================================================================
	descriptor.HIDUsagePageGenericDesktop,
	descriptor.HIDUsageDesktopKeyboard,
	descriptor.HIDCollectionApplication,
	descriptor.HIDReportID(2),
	// Modifier keys (8 bits)
	descriptor.HIDUsagePageKeyboard,
	descriptor.HIDUsageMinimum(224),
	descriptor.HIDUsageMaximum(231),
	descriptor.HIDLogicalMinimum(0),
	descriptor.HIDLogicalMaximum(1),
	descriptor.HIDReportSize(1),
	descriptor.HIDReportCount(8),
	descriptor.HIDInputDataVarAbs,
	// Reserved byte
	descriptor.HIDReportCount(1),
	descriptor.HIDReportSize(8),
	descriptor.HIDInputConstVarAbs,
	// LED output report (for keyboard LEDs)
	descriptor.HIDReportCount(3),
	descriptor.HIDReportSize(1),
	descriptor.HIDUsagePageLED,
	descriptor.HIDUsageMinimum(1),
	descriptor.HIDUsageMaximum(3),
	descriptor.HIDOutputDataVarAbs,
	descriptor.HIDReportCount(5),
	descriptor.HIDReportSize(1),
	descriptor.HIDOutputConstVarAbs,
	// Keycodes (6 keys)
	descriptor.HIDReportCount(6),
	descriptor.HIDReportSize(8),
	descriptor.HIDLogicalMinimum(0),
	descriptor.HIDLogicalMaximum(255),
	descriptor.HIDUsagePageKeyboard,
	descriptor.HIDUsageMinimum(0),
	descriptor.HIDUsageMaximum(255),
	descriptor.HIDInputDataAryAbs,
	descriptor.HIDCollectionEnd,

	// ===================================================================
	// REPORT ID 3: JOYSTICK (4 bytes total: 1 ID + 1 buttons + 2 axes)
	// ===================================================================
	descriptor.HIDUsagePageGenericDesktop,
	descriptor.HIDUsageDesktopJoystick,
	descriptor.HIDCollectionApplication,
	descriptor.HIDReportID(3),
	// 8 Buttons (1 byte)
	descriptor.HIDUsagePageButton,
	descriptor.HIDUsageMinimum(1),
	descriptor.HIDUsageMaximum(8),
	descriptor.HIDLogicalMinimum(0),
	descriptor.HIDLogicalMaximum(1),
	descriptor.HIDReportSize(1),
	descriptor.HIDReportCount(8),
	descriptor.HIDInputDataVarAbs,
	// 2 Analog Axes: X, Y (2 bytes)
	descriptor.HIDUsagePageGenericDesktop,
	descriptor.HIDLogicalMinimum(-127),
	descriptor.HIDLogicalMaximum(127),
	descriptor.HIDUsageDesktopX,
	descriptor.HIDUsageDesktopY,
	descriptor.HIDReportSize(8),
	descriptor.HIDReportCount(2),
	descriptor.HIDInputDataVarAbs,
	descriptor.HIDCollectionEnd,
})

// Configuration is the combined configuration descriptor for the
// composite device: CDC interfaces first, then the single HID interface
// carrying all three report collections.
var Configuration = descriptor.Append([][]byte{
	// Configuration header
	descriptor.ConfigurationCDCHID.Bytes(),
	// CDC interfaces
	descriptor.InterfaceAssociationCDC.Bytes(),
	descriptor.InterfaceCDCControl.Bytes(),
	descriptor.ClassSpecificCDCHeader.Bytes(),
	descriptor.ClassSpecificCDCACM.Bytes(),
	descriptor.ClassSpecificCDCUnion.Bytes(),
	descriptor.ClassSpecificCDCCallManagement.Bytes(),
	descriptor.EndpointEP1IN.Bytes(),
	descriptor.InterfaceCDCData.Bytes(),
	descriptor.EndpointEP2OUT.Bytes(),
	descriptor.EndpointEP3IN.Bytes(),
	// HID interface
	descriptor.InterfaceHID.Bytes(),
	// HID class descriptor (patched with the real report length)
	func() []byte {
		classHID := descriptor.ClassHID.Bytes()
		classHID[7] = byte(len(CompositeHIDReportDescriptor))
		classHID[8] = byte(len(CompositeHIDReportDescriptor) >> 8)
		return classHID
	}(),
	descriptor.EndpointEP4IN.Bytes(),
	descriptor.EndpointEP5OUT.Bytes(),
})

// Install swaps the report and configuration descriptors into the
// CDC+HID descriptor the USB stack enumerates with. Must run before the
// host requests descriptors, so call it first thing in main.
func Install() {
	descriptor.CDCHID.Configuration = Configuration
	descriptor.CDCHID.HID[usb.HID_INTERFACE] = CompositeHIDReportDescriptor
}
