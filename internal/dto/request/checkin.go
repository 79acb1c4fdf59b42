package request

type ValidateQRRequest struct {
	EncryptedData string `json:"encryptedData" validate:"required"`
}
