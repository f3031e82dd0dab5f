//go:build !linux

package cpu

func pin(int) (func(), error) {
	return nil, ErrUnsupported
}
