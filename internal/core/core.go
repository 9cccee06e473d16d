package core

import (
	"errors"
	"net"
	"os"
	"strconv"
)

func SplitAddress(address string) (host string, port string) {
	var err error
	host, port, err = net.SplitHostPort(address)
	if err != nil {
		host = address
	}
	return
}

func Address(host string, port int) string {
	return host + ":" + strconv.Itoa(port)
}

// https://stackoverflow.com/a/12518877
func FileExists(filePath string) (bool, error) {
	if _, err := os.Stat(filePath); err == nil {
		return true, nil
	} else if errors.Is(err, os.ErrNotExist) {
		return false, nil
	} else {
		return false, err
	}
}

func Optional[T any](optional *T, defaulT T) T {
	if optional != nil {
		return *optional
	}
	return defaulT
}

func Must(err error) {
	if err != nil {
		panic(err)
	}
}

func Must2[T any](t T, err error) T {
	if err != nil {
		panic(err)
	}
	return t
}
