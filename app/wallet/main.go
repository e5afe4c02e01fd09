package main

import "github.com/gridwatt/energychain/app/wallet/cmd"

func main() {
	cmd.Execute()
}
