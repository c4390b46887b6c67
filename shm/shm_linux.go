// Copyright 2024 Jovan J. E. Odassius. All rights reserved.

package shm

import (
	"bufio"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// On linux shared memory objects are plain files on a tmpfs mount.
// The mount is located the way glibc's shm_open does it: /dev/shm if it
// is a tmpfs, otherwise the first usable tmpfs record in /proc/mounts.
const (
	maxNameLen     = 255
	defaultShmPath = "/dev/shm/"

	cShmfsSuperMagic = 0x01021994
	cRamfsMagic      = 0x858458f6
)

var (
	shmPathOnce sync.Once
	shmPath     string
)

func shmOpen(path string, flag int, perm os.FileMode) (*os.File, error) {
	return os.OpenFile(path, flag, perm)
}

func doUnlinkMemoryObject(path string) error {
	if err := os.Remove(path); !os.IsNotExist(err) {
		return err
	}
	return nil
}

func shmName(name string) (string, error) {
	name = strings.TrimLeft(name, "/")
	if len(name) == 0 || len(name) >= maxNameLen || strings.Contains(name, "/") {
		return "", errors.New("invalid shm name")
	}
	dir, err := shmDirectory()
	if err != nil {
		return "", errors.Wrap(err, "error building shared memory name")
	}
	return dir + name, nil
}

func shmDirectory() (string, error) {
	shmPathOnce.Do(func() {
		if checkShmPath(defaultShmPath) {
			shmPath = defaultShmPath
		} else {
			shmPath = shmFsFromMounts()
		}
	})
	if len(shmPath) == 0 {
		return "", errors.New("error locating the shared memory path")
	}
	return shmPath, nil
}

func checkShmPath(path string) bool {
	if len(path) == 0 {
		return false
	}
	var statfs unix.Statfs_t
	if err := unix.Statfs(path, &statfs); err != nil {
		return false
	}
	fsType := int64(statfs.Type)
	return fsType == cShmfsSuperMagic || fsType == cRamfsMagic
}

func shmFsFromMounts() string {
	fsFile, err := os.Open("/proc/mounts")
	if err != nil {
		if fsFile, err = os.Open("/etc/fstab"); err != nil {
			return ""
		}
	}
	defer fsFile.Close()
	return shmFsFromReader(fsFile)
}

func shmFsFromReader(r io.Reader) string {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		// fsname dir fstype opts freq passno
		fields := strings.Fields(scanner.Text())
		if len(fields) < 3 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		if fsType := fields[2]; fsType != "tmpfs" && fsType != "shm" {
			continue
		}
		dir := fields[1]
		if checkShmPath(dir) {
			if !strings.HasSuffix(dir, "/") {
				dir += "/"
			}
			return dir
		}
	}
	return ""
}
