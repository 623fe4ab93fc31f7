package uservo

import (
	"encoding/binary"
	"math"
)

// Physical quantities travel on the wire as little-endian fixed-point
// integers. Resolutions: angle and velocity 0.1 units, voltage mV, current
// mA, power mW, temperature whole °C. Scaling does not clamp; callers must
// stay within the wire field's representable range.

// EncodeAngle converts degrees to the signed 16-bit wire value (0.1° units).
func EncodeAngle(degrees float64) int16 {
	return int16(math.Round(degrees * 10))
}

// DecodeAngle converts a wire angle value back to degrees.
func DecodeAngle(wire int16) float64 {
	return float64(wire) / 10
}

// EncodeVelocity converts degrees/second to the signed 16-bit wire value
// (0.1°/s units).
func EncodeVelocity(degPerSec float64) int16 {
	return int16(math.Round(degPerSec * 10))
}

// DecodeVoltage converts a wire millivolt value to volts.
func DecodeVoltage(milliVolts uint16) float64 {
	return float64(milliVolts) / 1000
}

// DecodeCurrent converts a wire milliamp value to amps.
func DecodeCurrent(milliAmps int16) float64 {
	return float64(milliAmps) / 1000
}

// DecodePower converts a wire milliwatt value to watts.
func DecodePower(milliWatts uint16) float64 {
	return float64(milliWatts) / 1000
}

// DecodeTemperature converts the signed 8-bit wire value to °C.
func DecodeTemperature(wire int8) float64 {
	return float64(wire)
}

// Little-endian word helpers used by the payload builders.

func putInt16(buf []byte, v int16) {
	binary.LittleEndian.PutUint16(buf, uint16(v))
}

func putUint16(buf []byte, v uint16) {
	binary.LittleEndian.PutUint16(buf, v)
}

func getInt16(buf []byte) int16 {
	return int16(binary.LittleEndian.Uint16(buf))
}

func getUint16(buf []byte) uint16 {
	return binary.LittleEndian.Uint16(buf)
}
