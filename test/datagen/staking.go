// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package datagen

import (
	"crypto/rand"
	"math/big"
	mathrand "math/rand/v2"

	"github.com/vechain/stake-tracker/staking"
)

func RandAddress() (addr staking.Address) {
	rand.Read(addr[:])
	return
}

func RandIntN(n int) int {
	return mathrand.N(n) //#nosec G404
}

// RandAmount returns a random stake amount of 1 to maxUnits whole units.
func RandAmount(unit *big.Int, maxUnits int) *big.Int {
	return new(big.Int).Mul(unit, big.NewInt(int64(1+RandIntN(maxUnits))))
}
