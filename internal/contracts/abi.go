package contracts

// EscrowABI is the AllWeatherEscrow interface.
const EscrowABI = `[
  {"type":"event","name":"BuyRequested","anonymous":false,"inputs":[
    {"indexed":true,"name":"user","type":"address"},
    {"indexed":false,"name":"amountHbar","type":"uint256"},
    {"indexed":false,"name":"prices","type":"uint256[4]"},
    {"indexed":false,"name":"weights","type":"uint256[3]"}]},
  {"type":"event","name":"PriceUpdateFailed","anonymous":false,"inputs":[
    {"indexed":false,"name":"reason","type":"string"}]},
  {"type":"event","name":"SellRequested","anonymous":false,"inputs":[
    {"indexed":true,"name":"user","type":"address"},
    {"indexed":false,"name":"amountHbar","type":"uint256"},
    {"indexed":false,"name":"prices","type":"uint256[4]"}]},
  {"type":"event","name":"WithdrawExecuted","anonymous":false,"inputs":[
    {"indexed":true,"name":"user","type":"address"},
    {"indexed":false,"name":"payoutHbar","type":"uint256"}]},
  {"type":"function","name":"buy","stateMutability":"payable","inputs":[
    {"name":"priceUpdateData","type":"bytes[]"},
    {"name":"weights","type":"uint256[3]"}],"outputs":[]},
  {"type":"function","name":"getAum","stateMutability":"view","inputs":[],"outputs":[
    {"name":"","type":"uint256"}]},
  {"type":"function","name":"latestPrices","stateMutability":"view","inputs":[
    {"name":"","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"owner","stateMutability":"view","inputs":[],"outputs":[
    {"name":"","type":"address"}]},
  {"type":"function","name":"PRICE_ORACLE","stateMutability":"view","inputs":[],"outputs":[
    {"name":"","type":"address"}]},
  {"type":"function","name":"sell","stateMutability":"payable","inputs":[
    {"name":"amountHbar","type":"uint256"},
    {"name":"priceUpdateData","type":"bytes[]"}],"outputs":[]},
  {"type":"function","name":"withdraw","stateMutability":"nonpayable","inputs":[
    {"name":"user","type":"address"},
    {"name":"payoutEth","type":"uint256"}],"outputs":[]},
  {"type":"receive","stateMutability":"payable"},
  {"type":"fallback","stateMutability":"payable"}
]`

const pythPriceComponents = `[
  {"name":"price","type":"int64"},
  {"name":"conf","type":"uint64"},
  {"name":"expo","type":"int32"},
  {"name":"publishTime","type":"uint256"}]`

// OracleABI is the AllWeatherPriceOracle interface.
const OracleABI = `[
  {"type":"function","name":"updateAndGetPrices","stateMutability":"payable","inputs":[
    {"name":"priceUpdateData","type":"bytes[]"}],"outputs":[
    {"name":"prices","type":"tuple[4]","components":` + pythPriceComponents + `}]},
  {"type":"function","name":"getCurrentPrices","stateMutability":"view","inputs":[],"outputs":[
    {"name":"prices","type":"tuple[4]","components":` + pythPriceComponents + `}]},
  {"type":"function","name":"getUpdateFee","stateMutability":"view","inputs":[
    {"name":"priceUpdateData","type":"bytes[]"}],"outputs":[
    {"name":"fee","type":"uint256"}]},
  {"type":"function","name":"getAssetPrice","stateMutability":"view","inputs":[
    {"name":"assetIndex","type":"uint256"}],"outputs":[
    {"name":"price","type":"tuple","components":` + pythPriceComponents + `}]}
]`
