package handler

// CreateIntent godoc
// @Summary Create a payment intent
// @Description Open a mock payment intent for an order. Amount is in euros and converted to cents.
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body object{orderId=string,amount=number,currency=string,customerId=string,description=string,metadata=object} true "Intent data"
// @Success 200 {object} object{paymentIntentId=string,clientSecret=string}
// @Failure 400 {object} object{error=string}
// @Failure 500 {object} object{error=string}
// @Router /api/payments/create-intent [post]
func (h *PaymentHandler) CreateIntentDoc() {}

// Confirm godoc
// @Summary Confirm a payment
// @Description Check whether a mock payment intent succeeded
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body object{paymentIntentId=string} true "Intent reference"
// @Success 200 {object} object{success=bool,status=string}
// @Failure 400 {object} object{error=string}
// @Failure 500 {object} object{error=string}
// @Router /api/payments/confirm [post]
func (h *PaymentHandler) ConfirmDoc() {}
