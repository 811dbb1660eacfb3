package utils

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/anyswap/CrossChain-Bridge/common"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/go-playground/validator/v10"
)

// ZeroAddress 原生币 (ETH) 在订单中的占位地址
const ZeroAddress = "0x0000000000000000000000000000000000000000"

var (
	// validatorM 自定义验证函数, key 为 tag 名称
	validatorM map[string]validator.Func
	// patternM 正则验证的模式, key 为 tag 名称
	patternM map[string]string

	validate     *validator.Validate
	validateOnce sync.Once
)

func init() {
	validatorM = map[string]validator.Func{
		"address":  regexpValidator,
		"tokenids": regexpValidator,
	}
	patternM = map[string]string{
		// 以太坊地址: 0x 开头, 后接 40 位 16 进制字符
		"address": `^0x[a-fA-F0-9]{40}$`,
		// tokenId 列表: 逗号分隔的十进制数字
		"tokenids": `^\s*[0-9]+\s*(,\s*[0-9]+\s*)*$`,
	}
}

// regexpValidator 根据 tag 名称查找正则并匹配
var regexpValidator validator.Func = func(fl validator.FieldLevel) bool {
	key, _ := fl.Field().Interface().(string)
	pattern, ok := patternM[fl.GetTag()]
	if !ok {
		return false
	}
	match, _ := regexp.MatchString(pattern, key)
	if match && fl.GetTag() == "address" {
		return ethcommon.IsHexAddress(key)
	}
	return match
}

// Verify 使用注册了自定义规则的 validator 校验结构体
func Verify(v interface{}) error {
	validateOnce.Do(func() {
		validate = validator.New()
		for tag, fn := range validatorM {
			if err := validate.RegisterValidation(tag, fn); err != nil {
				panic(err)
			}
		}
	})
	return validate.Struct(v)
}

// ToValidateAddress 将以太坊地址转换为校验和格式 (EIP-55)
// 对小写地址做 Keccak-256, 哈希对应半字节 >= 8 时该字母大写
func ToValidateAddress(address string) string {
	addrLowerStr := strings.ToLower(address)
	if strings.HasPrefix(addrLowerStr, "0x") {
		addrLowerStr = addrLowerStr[2:]
	}
	var binaryStr string
	addrBytes := []byte(addrLowerStr)

	hash256 := common.Keccak256Hash([]byte(addrLowerStr))

	for i, e := range addrLowerStr {
		if e >= '0' && e <= '9' {
			continue
		}
		binaryStr = fmt.Sprintf("%08b", hash256[i/2])
		// i 为偶数看高 4 位, 奇数看低 4 位
		if binaryStr[4*(i%2)] == '1' {
			addrBytes[i] -= 32
		}
	}

	return "0x" + string(addrBytes)
}

// IsZeroAddress 是否为零地址 (忽略大小写)
func IsZeroAddress(address string) bool {
	return strings.EqualFold(address, ZeroAddress)
}
