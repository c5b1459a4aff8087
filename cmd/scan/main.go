// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The scan command reports battery monitor devices visible to the
// local Bluetooth adapter, optionally printing the GATT profile of a
// single device.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"tinygo.org/x/bluetooth"

	"github.com/kortschak/cellmon/bms"
	"github.com/kortschak/cellmon/devinfo"
	"github.com/kortschak/cellmon/internal/forkbeard"
)

func main() {
	timeout := flag.Duration("timeout", time.Minute, "scan duration")
	all := flag.Bool("all", false, "report devices not advertising the BMS service")
	connect := flag.String("connect", "", "connect to the device at this address and print its GATT profile")
	flag.Parse()

	adapter := bluetooth.DefaultAdapter
	err := adapter.Enable()
	if err != nil {
		fmt.Printf("failed to enable bluetooth: %v", err)
		os.Exit(1)
	}

	if *connect != "" {
		var macAddr bluetooth.Address
		err = macAddr.UnmarshalText([]byte(*connect))
		if err != nil {
			flag.Usage()
			os.Exit(2)
		}
		err = profile(adapter, macAddr)
		if err != nil {
			log.Fatal(err)
		}
		return
	}

	bmsService := must(bluetooth.ParseUUID(bms.ServiceID))
	seen := make(map[bluetooth.Address]bool)
	time.AfterFunc(*timeout, func() { adapter.StopScan() })
	fmt.Println("scanning...")
	err = adapter.Scan(func(adapter *bluetooth.Adapter, found bluetooth.ScanResult) {
		if seen[found.Address] {
			return
		}
		seen[found.Address] = true
		if !*all && !found.HasServiceUUID(bmsService) {
			return
		}
		fmt.Printf(`
found device:
  mac: %s rss: %d
  name: %q
  manufacturer data: %v
  service data: %#v
`,
			found.Address, found.RSSI,
			found.LocalName(),
			manData(found.ManufacturerData()),
			found.ServiceData(),
		)
	})
	if err != nil {
		log.Fatal(err)
	}
}

func profile(adapter *bluetooth.Adapter, addr bluetooth.Address) error {
	fmt.Println("scanning...")
	dev, err := forkbeard.Connect(adapter, addr)
	if err != nil {
		return err
	}
	defer dev.Disconnect()
	info, err := devinfo.Read(&dev)
	if err != nil {
		log.Printf("failed to read device information: %v", err)
	} else {
		fmt.Printf("device information: %s\n", info)
	}
	services, err := forkbeard.Profile(&dev)
	if err != nil {
		return err
	}
	for _, srv := range services {
		fmt.Printf("service %s\n", srv.UUID)
		for _, char := range srv.Characteristics {
			fmt.Printf("  characteristic %s\n", char)
		}
	}
	return nil
}

func manData(m []bluetooth.ManufacturerDataElement) []string {
	s := make([]string, len(m))
	for i, d := range m {
		s[i] = fmt.Sprintf("%#x", d.Data)
	}
	return s
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
