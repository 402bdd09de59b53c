// Package forward prices forwards on physical commodities, dividend-paying
// stocks and coupon bonds using simple interest. Rates are in percent and
// times in months.
package forward

import (
	"fmt"
	"math"

	apperrors "spread-analyzer/internal/errors"
	"spread-analyzer/pkg/utils"
)

// Dividends and coupons are paid semiannually.
const paymentIntervalMonths = 6

// Payment is a cash flow received before the forward matures. It is
// reinvested at Rate for the MonthsRemaining until maturity.
type Payment struct {
	Amount          float64 `json:"amount"`
	MonthsRemaining float64 `json:"months_remaining"`
	Rate            float64 `json:"rate"`
}

// FutureValue returns the payment grown to maturity.
func (p Payment) FutureValue() float64 {
	return p.Amount * growth(p.Rate, p.MonthsRemaining)
}

func growth(ratePercent, months float64) float64 {
	return 1 + (ratePercent/100)*(months/12)
}

// PhysicalCommodityForward returns the cash price carried to maturity plus
// storage and insurance costs (both annual, per unit).
func PhysicalCommodityForward(cash, months, rate, storage, insurance float64) float64 {
	carry := cash * growth(rate, months)
	return utils.RoundTo(carry+(storage+insurance)*(months/12), 3)
}

// ConvenienceYield is the excess of the cash price over the price implied
// by a forward and the cost of carry.
func ConvenienceYield(months, forward, rate, storage, insurance, cash float64) float64 {
	implied := forward - (storage+insurance)*(months/12)
	implied /= growth(rate, months)
	return utils.RoundTo(cash-implied, 3)
}

// schedule lists the months remaining after each semiannual payment, the
// first falling next months from now.
func schedule(maturity, next float64) []float64 {
	remaining := maturity - next
	if remaining < 0 {
		return nil
	}
	times := []float64{remaining}
	for remaining -= paymentIntervalMonths; remaining > 0; remaining -= paymentIntervalMonths {
		times = append(times, remaining)
	}
	return times
}

// DividendSchedule returns the semiannual dividends paid before maturity.
// Rates are left zero; see WithRates.
func DividendSchedule(maturity, dividend, nextDividend float64) []Payment {
	times := schedule(maturity, nextDividend)
	out := make([]Payment, len(times))
	for i, t := range times {
		out[i] = Payment{Amount: dividend, MonthsRemaining: t}
	}
	return out
}

// CouponSchedule returns the semiannual coupons paid before maturity.
func CouponSchedule(maturity, coupon, nextCoupon float64) []Payment {
	return DividendSchedule(maturity, coupon, nextCoupon)
}

// WithRates assigns a reinvestment rate to each payment.
func WithRates(payments []Payment, rates []float64) ([]Payment, error) {
	if len(rates) != len(payments) {
		return nil, apperrors.NewPreconditionError("with rates", "rates", len(rates),
			fmt.Sprintf("need one rate per payment (%d payments)", len(payments)), apperrors.ErrInputMalformed)
	}
	out := make([]Payment, len(payments))
	for i, p := range payments {
		p.Rate = rates[i]
		out[i] = p
	}
	return out, nil
}

// StockForward returns the stock price carried to maturity less the
// reinvested value of the dividends paid before it.
func StockForward(price, months, rate float64, dividends []Payment) float64 {
	return carryLessPayments(price, months, rate, dividends)
}

// SimpleStockForward ignores the reinvestment of dividends. A dividend
// falling on the maturity date is counted.
func SimpleStockForward(price, rate, months, dividend, nextDividend float64) float64 {
	n := math.Max(math.Floor((months-nextDividend)/paymentIntervalMonths)+1, 0)
	return utils.RoundTo(price*growth(rate, months)-n*dividend, 3)
}

// BondForward returns the bond price carried to maturity less the
// reinvested value of the coupons paid before it.
func BondForward(price, months, rate float64, coupons []Payment) float64 {
	return carryLessPayments(price, months, rate, coupons)
}

func carryLessPayments(price, months, rate float64, payments []Payment) float64 {
	var income float64
	for _, p := range payments {
		income += p.FutureValue()
	}
	return utils.RoundTo(price*growth(rate, months)-income, 3)
}
